package elastictiny

import "encoding/json"

// Envelope is the uniform result of one logical call. Exactly one of Data
// and Err holds meaningful content on return; Code always reflects the
// last attempt's outcome and defaults to the 500 sentinel before any
// response was observed.
type Envelope struct {
	Data json.RawMessage
	Code int
	Err  error
}

// Ok reports whether the call succeeded.
func (e Envelope) Ok() bool {
	return e.Err == nil
}

// DecodeInto unmarshals the envelope's data into v. A failed envelope
// returns its own error; a malformed body is reported as a Decode error.
func (e Envelope) DecodeInto(v any) error {
	if e.Err != nil {
		return e.Err
	}
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return &ClientError{
			Type:    ErrorTypeDecode,
			Message: "decoding response body",
			Cause:   err,
		}
	}
	return nil
}

// Into decodes an envelope into a typed result, combining the Ok/Err check
// and the unmarshal step.
func Into[T any](e Envelope) (T, error) {
	var out T
	if err := e.DecodeInto(&out); err != nil {
		return out, err
	}
	return out, nil
}
