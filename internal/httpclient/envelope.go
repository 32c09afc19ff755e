// ABOUTME: Response envelope decoding: {success,data,message} or {success:false,error:{code,message,details}}
// ABOUTME: Error codes may be strings or numbers on the wire and are normalized to strings
package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidEnvelope is returned when an enveloped endpoint answers without a success flag.
var ErrInvalidEnvelope = errors.New("invalid API response")

type errorBody struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (b *errorBody) code() string {
	if len(b.Code) == 0 || string(b.Code) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Code, &s); err == nil {
		return s
	}
	return strings.Trim(string(b.Code), `"`)
}

func (b *errorBody) applyTo(e *APIError) {
	if code := b.code(); code != "" {
		e.Code = code
	}
	if b.Message != "" {
		e.Message = b.Message
	} else if code := b.code(); code != "" {
		e.Message = code
	}
	if len(b.Details) > 0 {
		e.Details = b.Details
	}
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// parseEnvelope returns nil when body is not a JSON object carrying a success flag.
func parseEnvelope(body []byte) *envelope {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil {
		return nil
	}
	return &env
}

// failure extracts the error body of a success:false envelope.
// Some backends send error as a bare string; that string becomes the message.
func (env *envelope) failure() *errorBody {
	eb := &errorBody{}
	if len(env.Error) > 0 {
		if err := json.Unmarshal(env.Error, eb); err != nil {
			var msg string
			if json.Unmarshal(env.Error, &msg) == nil {
				eb.Message = msg
			}
		}
	}
	if eb.Message == "" && env.Message != "" {
		eb.Message = env.Message
	}
	return eb
}

// errorBodyFrom pulls an error description out of a non-2xx body, enveloped or not.
func errorBodyFrom(body []byte) *errorBody {
	if env := parseEnvelope(body); env != nil && !*env.Success {
		return env.failure()
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var loose struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(trimmed, &loose) != nil {
		return nil
	}
	eb := &errorBody{Code: loose.Code, Message: loose.Message}
	if eb.Message == "" && len(loose.Error) > 0 {
		var msg string
		if json.Unmarshal(loose.Error, &msg) == nil {
			eb.Message = msg
		} else {
			var nested errorBody
			if json.Unmarshal(loose.Error, &nested) == nil {
				eb = &nested
			}
		}
	}
	return eb
}

// Unwrap decodes the data member of an enveloped body into T.
func Unwrap[T any](body []byte) (T, error) {
	var out T
	env := parseEnvelope(body)
	if env == nil {
		return out, ErrInvalidEnvelope
	}
	if !*env.Success {
		return out, newEnvelopeError("", "", 0, env.failure())
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// UnwrapFlexible accepts either an envelope or the bare payload.
func UnwrapFlexible[T any](body []byte) (T, error) {
	if parseEnvelope(body) != nil {
		return Unwrap[T](body)
	}
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	err := json.Unmarshal(body, &out)
	return out, err
}
