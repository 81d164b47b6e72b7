package transport

import "encoding/json"

// Status discriminator carried by every envelope.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the wire shape shared by success and error responses.
// Unset fields stay off the wire, so a success never carries an error
// code and vice versa.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess wraps a payload in a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusSuccess, Data: data, Meta: meta}
}

// NewError wraps a machine-readable code and a human-readable error in
// an error envelope.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusError, Code: code, Error: err, Meta: meta}
}

// String renders the envelope as JSON. A payload that cannot marshal
// degrades to an empty object; callers use this on response and log
// paths where failing is worse than losing detail.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
