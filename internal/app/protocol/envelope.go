/*
Package protocol defines the wire frames exchanged with the chat server.

Every frame is a JSON object of the form

	{ "messageType": "users"|"register"|"message", "dataArray": [...], "data": "..." }

The field names and the three lowercase tags are the interop contract with the
server and must not change.
*/
package protocol

import (
	"bytes"
	"encoding/json"
	"strings"

	"chatsync/internal/pkg/errs"
)

// Kind identifies the variant carried by an Envelope.
type Kind string

const (
	// KindUsers carries a full roster snapshot in List.
	KindUsers Kind = "users"

	// KindRegister carries the registering username in Data.
	KindRegister Kind = "register"

	// KindMessage carries a chat message in Data. Outbound it is the raw text,
	// inbound it is a nested {"from","message"} object.
	KindMessage Kind = "message"
)

// Valid reports whether k is one of the recognized variants.
func (k Kind) Valid() bool {
	switch k {
	case KindUsers, KindRegister, KindMessage:
		return true
	default:
		return false
	}
}

func (k Kind) String() string { return string(k) }

// Envelope is the unit exchanged over the socket.
// Users envelopes have a non-nil List and nil Data; register and message
// envelopes have a nil List and an optional Data.
type Envelope struct {
	Kind Kind
	List []string
	Data *string
}

// frame is the on-wire shape. DataArray is a pointer so an empty roster is
// still emitted as [] rather than omitted.
type frame struct {
	MessageType Kind      `json:"messageType"`
	DataArray   *[]string `json:"dataArray,omitempty"`
	Data        *string   `json:"data,omitempty"`
}

// frameFields are the wire field names. encoding/json matches struct fields
// case-insensitively, so Decode checks the spelling itself.
var frameFields = []string{"messageType", "dataArray", "data"}

func checkFieldNames(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errs.NewDecodeError(err, "malformed frame")
	}

	for key := range fields {
		for _, name := range frameFields {
			if key != name && strings.EqualFold(key, name) {
				return errs.NewDecodeError(nil, "field %q must be spelled %q", key, name)
			}
		}
	}
	return nil
}

// Users builds a roster snapshot envelope. A nil names slice is an empty roster.
func Users(names []string) Envelope {
	list := make([]string, len(names))
	copy(list, names)
	return Envelope{Kind: KindUsers, List: list}
}

// Register builds the registration envelope sent at session start.
func Register(username string) Envelope {
	return Envelope{Kind: KindRegister, Data: &username}
}

// Message builds an outbound chat message envelope carrying text.
func Message(text string) Envelope {
	return Envelope{Kind: KindMessage, Data: &text}
}

// Text returns Data, or "" with ok false when the payload is absent.
func (e Envelope) Text() (string, bool) {
	if e.Data == nil {
		return "", false
	}
	return *e.Data, true
}

// Validate checks that the payload shape matches the kind.
func (e Envelope) Validate() error {
	if !e.Kind.Valid() {
		return errs.NewDecodeError(nil, "unknown messageType %q", string(e.Kind))
	}

	if e.Kind == KindUsers {
		if e.List == nil {
			return errs.NewDecodeError(nil, "users frame without dataArray")
		}
		if e.Data != nil {
			return errs.NewDecodeError(nil, "users frame with data")
		}
		return nil
	}

	if e.List != nil {
		return errs.NewDecodeError(nil, "%s frame with dataArray", e.Kind)
	}
	return nil
}

// Encode renders e as wire text. It only fails for an envelope that does not
// satisfy Validate.
func Encode(e Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	f := frame{MessageType: e.Kind, Data: e.Data}
	if e.Kind == KindUsers {
		list := e.List
		f.DataArray = &list
	}

	return json.Marshal(f)
}

// EncodeString is Encode for callers that work with text frames.
func EncodeString(e Envelope) (string, error) {
	b, err := Encode(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses wire text into an Envelope. Every failure is a *errs.DecodeError
// and the frame must be discarded by the caller.
func Decode(raw []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, errs.NewDecodeError(nil, "frame is not a JSON object")
	}

	if err := checkFieldNames(trimmed); err != nil {
		return Envelope{}, err
	}

	var f frame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return Envelope{}, errs.NewDecodeError(err, "malformed frame")
	}

	if f.MessageType == "" {
		return Envelope{}, errs.NewDecodeError(nil, "frame without messageType")
	}

	e := Envelope{Kind: f.MessageType, Data: f.Data}
	if f.DataArray != nil {
		e.List = *f.DataArray
		if e.List == nil {
			e.List = []string{}
		}
	}

	if err := e.Validate(); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// DecodeString is Decode for text frames.
func DecodeString(raw string) (Envelope, error) {
	return Decode([]byte(raw))
}
