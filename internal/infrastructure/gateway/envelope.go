package gateway

import (
	"encoding/json"
	"errors"
)

// Envelope status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrNoData is returned when decoding an envelope with no data payload
var ErrNoData = errors.New("gateway: envelope has no data payload")

// Envelope is the canonical {status, data|message} response shape.
// Legacy upstream variations (numeric status, bare arrays, extra top-level
// fields) are preserved so compat shims can inspect them.
type Envelope struct {
	Status  string
	Data    json.RawMessage
	Message string

	// StatusNumber is set when the upstream sent a numeric status
	// field (legacy endpoints); zero otherwise
	StatusNumber int

	// HTTPCode is the transport status; zero when the request never
	// reached the server
	HTTPCode int

	body []byte
}

// UnmarshalJSON tolerates both string and numeric status fields
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var aux struct {
		Status  json.RawMessage `json:"status"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	e.Data = aux.Data
	e.Message = aux.Message

	if len(aux.Status) > 0 {
		var s string
		if err := json.Unmarshal(aux.Status, &s); err == nil {
			e.Status = s
		} else {
			var n int
			if err := json.Unmarshal(aux.Status, &n); err == nil {
				e.StatusNumber = n
				if n >= 200 && n < 300 {
					e.Status = StatusSuccess
				} else {
					e.Status = StatusError
				}
			}
		}
	}

	return nil
}

// Succeeded reports whether the canonical contract signalled success
func (e *Envelope) Succeeded() bool {
	return e.Status == StatusSuccess
}

// DecodeData unmarshals the data payload into v
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return ErrNoData
	}
	return json.Unmarshal(e.Data, v)
}

// Decode unmarshals the entire response body into v. Used by compat
// shims for endpoints that put fields outside the canonical envelope.
func (e *Envelope) Decode(v any) error {
	if len(e.body) == 0 {
		return ErrNoData
	}
	return json.Unmarshal(e.body, v)
}

// Body returns the raw response body (nil when the request never
// produced a JSON body)
func (e *Envelope) Body() []byte {
	return e.body
}

// errorEnvelope builds a synthesized error envelope
func errorEnvelope(httpCode int, message string) *Envelope {
	return &Envelope{
		Status:   StatusError,
		Message:  message,
		HTTPCode: httpCode,
	}
}
