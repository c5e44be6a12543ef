package handler

// ErrorResponse is the error payload shared by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the generic success payload.
type MessageResponse struct {
	Message string `json:"message"`
}
