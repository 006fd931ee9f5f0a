package root

// Message is the greeting served at the root path.
const Message = "Hello from DevSecOps Flask!"

// Data models the response payload for the root endpoint.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello from DevSecOps Flask!"`
}

// GetOutput is the response wrapper for GET /.
type GetOutput struct {
	Body Data
}
