package respond

import (
	"strconv"
	"strings"
)

// mediaRange is one entry of an Accept header.
type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// Specificity ranks how closely a media range matched a candidate type.
// Problem types rank above their base type so that, at equal quality,
// "application/problem+cbor" beats "application/json".
const (
	rankNone = iota - 1
	rankAny
	rankTypeWildcard
	rankSuffixWildcard
	rankExact
	rankProblemExact
)

var (
	jsonCandidates = []string{"application/json", contentTypeProblemJSON}
	cborCandidates = []string{"application/cbor", contentTypeProblemCBOR}
)

// parseAccept splits an Accept header into media ranges. Empty parts are skipped,
// a bare type is read as type/*, and a missing, malformed or out-of-range q
// counts as 1. When q repeats, the last value wins.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params := strings.Split(part, ";")
		mediaType := strings.ToLower(strings.TrimSpace(params[0]))
		if mediaType == "" {
			continue
		}
		mr := mediaRange{q: 1.0}
		if typ, subtype, ok := strings.Cut(mediaType, "/"); ok {
			mr.typ, mr.subtype = strings.TrimSpace(typ), strings.TrimSpace(subtype)
		} else {
			mr.typ, mr.subtype = mediaType, "*"
		}
		for _, p := range params[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || q < 0 || q > 1 {
				q = 1.0
			}
			mr.q = q
		}
		ranges = append(ranges, mr)
	}
	return ranges
}

// match reports how specifically mr covers the candidate media type.
func (mr mediaRange) match(candidate string) int {
	typ, subtype, _ := strings.Cut(candidate, "/")
	switch {
	case mr.typ == "*" && mr.subtype == "*":
		return rankAny
	case mr.typ != typ:
		return rankNone
	case mr.subtype == subtype:
		if strings.Contains(subtype, "+") {
			return rankProblemExact
		}
		return rankExact
	case mr.subtype == "*":
		return rankTypeWildcard
	case strings.HasPrefix(mr.subtype, "*+"):
		if _, suffix, ok := strings.Cut(subtype, "+"); ok && suffix == mr.subtype[2:] {
			return rankSuffixWildcard
		}
	}
	return rankNone
}

// score returns the quality and specificity the ranges grant to the best of the
// candidates. For each candidate the most specific matching range decides its
// quality. A zero quality means not acceptable.
func score(ranges []mediaRange, candidates []string) (float64, int) {
	bestQ, bestRank := 0.0, rankNone
	for _, c := range candidates {
		q, rank := 0.0, rankNone
		for _, mr := range ranges {
			if s := mr.match(c); s > rank {
				q, rank = mr.q, s
			}
		}
		if rank == rankNone || q <= 0 {
			continue
		}
		if q > bestQ || (q == bestQ && rank > bestRank) {
			bestQ, bestRank = q, rank
		}
	}
	return bestQ, bestRank
}

// selectFormat reports whether CBOR should be used for the given Accept header.
// Quality ranks first and specificity breaks ties; JSON wins any remaining tie
// and is the default when neither format is acceptable.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return false
	}
	cborQ, cborRank := score(ranges, cborCandidates)
	if cborQ <= 0 {
		return false
	}
	jsonQ, jsonRank := score(ranges, jsonCandidates)
	if cborQ != jsonQ {
		return cborQ > jsonQ
	}
	return cborRank > jsonRank
}
