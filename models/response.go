package models

// Response is the envelope shared by every API response. Codigo carries the
// HTTP status code on failures and is the field name the existing web client
// consumes.
type Response struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Codigo  int    `json:"codigo,omitempty"`
	Details string `json:"details,omitempty"`
}
