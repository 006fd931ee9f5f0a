// Package timeutil holds the timestamp layouts shared across the service.
package timeutil

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
// Log timestamps use it.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"
