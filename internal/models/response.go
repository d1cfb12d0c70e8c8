package models

// ErrorKind classifies a failed operation so the transport can pick a
// status code by direct lookup instead of inspecting message text.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidInput
	KindNotFound
	KindInternal
)

// Envelope is the uniform wrapper around every API response.
// Data is present on success and null on failure; Errors is the
// reverse. Kind never crosses the wire.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"errors"`
	Kind    ErrorKind   `json:"-"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) *Envelope {
	return &Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail builds a failure envelope of the given kind.
func Fail(kind ErrorKind, message string, errs ...string) *Envelope {
	return &Envelope{
		Message: message,
		Errors:  errs,
		Kind:    kind,
	}
}
