package gateway

import "encoding/json"

// Envelope is the single internal response shape. The backend speaks two
// envelope dialects; both are mapped onto this one at the gateway boundary so
// shape ambiguity never propagates further.
type Envelope struct {
	Success bool
	Data    json.RawMessage
	Message string
}

// normalizeEnvelope accepts the current shape {success, data, message} and the
// legacy shape {message, data, timestamp}. Anything else is a ServerError.
func normalizeEnvelope(body []byte) (Envelope, error) {
	var probe struct {
		Success   *bool           `json:"success"`
		Data      json.RawMessage `json:"data"`
		Message   *string         `json:"message"`
		Timestamp *string         `json:"timestamp"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return Envelope{}, &ServerError{Message: "invalid response format"}
	}

	message := ""
	if probe.Message != nil {
		message = *probe.Message
	}

	switch {
	case probe.Success != nil:
		return Envelope{Success: *probe.Success, Data: probe.Data, Message: message}, nil
	case probe.Message != nil || probe.Timestamp != nil:
		// Legacy envelopes carry no success flag; reaching the body at all
		// means the call succeeded.
		return Envelope{Success: true, Data: probe.Data, Message: message}, nil
	default:
		return Envelope{}, &ServerError{Message: "invalid response format"}
	}
}
