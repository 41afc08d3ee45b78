package hub

import (
	"encoding/json"
	"fmt"
)

// Frame types sent by the hub.
const (
	frameAuthRequired = "auth_required"
	frameAuthOK       = "auth_ok"
	frameAuthInvalid  = "auth_invalid"
	frameResult       = "result"
)

// Command is an outbound hub command payload, e.g.
//
//	hub.Command{"type": "config/entity_registry/list"}
//
// The session owns the "id" field and overwrites it on send; callers
// must not set it.
type Command map[string]any

// withID returns a copy of the command with the given message id set.
// The receiver is left untouched so commands can be reused or inspected
// after sending.
func (c Command) withID(id int64) map[string]any {
	payload := make(map[string]any, len(c)+1)
	for k, v := range c {
		payload[k] = v
	}
	payload["id"] = id
	return payload
}

// authMessage is the client's answer to the auth_required challenge.
type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// ResultError carries the hub-reported error for a failed command.
type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is a correlated command response handed back to callers.
//
// Success reflects the hub's success flag; when false, Error carries the
// hub-reported reason (may be nil if the hub omitted it).
type Result struct {
	ID      int64
	Success bool
	Result  json.RawMessage
	Error   *ResultError
}

// ErrorMessage returns the hub-reported error message for a failed
// result, or "unknown error" if the hub did not include one.
func (r *Result) ErrorMessage() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	return "unknown error"
}

// frame is the tagged variant over everything the hub may send:
// auth_required, auth_ok, auth_invalid, or result.
type frame struct {
	Type    string          `json:"type"`
	ID      int64           `json:"id,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResultError    `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Version string          `json:"ha_version,omitempty"`
}

// parseFrame decodes and validates an inbound frame.
//
// Required-field validation happens here, at the boundary: a result frame
// must carry a positive id and a success flag. Any unrecognised type or
// shape is an ErrProtocol.
func parseFrame(data []byte) (*frame, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON frame: %v", ErrProtocol, err)
	}

	switch f.Type {
	case frameAuthRequired, frameAuthOK, frameAuthInvalid:
		return &f, nil
	case frameResult:
		if f.ID <= 0 {
			return nil, fmt.Errorf("%w: result frame missing id", ErrProtocol)
		}
		if f.Success == nil {
			return nil, fmt.Errorf("%w: result frame missing success flag", ErrProtocol)
		}
		return &f, nil
	case "":
		return nil, fmt.Errorf("%w: frame missing type", ErrProtocol)
	default:
		return nil, fmt.Errorf("%w: unknown frame type %q", ErrProtocol, f.Type)
	}
}
