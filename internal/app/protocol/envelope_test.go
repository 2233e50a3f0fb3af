package protocol

import (
	"reflect"
	"strings"
	"testing"

	"chatsync/internal/pkg/errs"
)

func TestEncode_WireFormat(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{"users", Users([]string{"alice", "bob"}), `{"messageType":"users","dataArray":["alice","bob"]}`},
		{"empty users", Users(nil), `{"messageType":"users","dataArray":[]}`},
		{"register", Register("alice"), `{"messageType":"register","data":"alice"}`},
		{"message", Message("hello"), `{"messageType":"message","data":"hello"}`},
		{"message without data", Envelope{Kind: KindMessage}, `{"messageType":"message"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.env)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncode_RejectsMismatchedPayload(t *testing.T) {
	text := "x"
	tests := []Envelope{
		{Kind: "join", Data: &text},
		{Kind: KindUsers},
		{Kind: KindUsers, List: []string{}, Data: &text},
		{Kind: KindRegister, List: []string{"a"}},
	}

	for _, env := range tests {
		if _, err := Encode(env); !errs.IsDecode(err) {
			t.Errorf("Encode(%+v) error = %v, want DecodeError", env, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	envelopes := []Envelope{
		Users([]string{"alice", "bob"}),
		Users([]string{}),
		Users([]string{"alice", "alice"}),
		Register("alice"),
		Register(""),
		Message("hello"),
		Message(`{"from":"alice","message":"hi"}`),
		Message("unicode ✓ \"quoted\""),
		{Kind: KindRegister},
		{Kind: KindMessage},
	}

	for _, env := range envelopes {
		raw, err := Encode(env)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", env, err)
		}
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%s): %v", raw, err)
		}
		if !reflect.DeepEqual(got, env) {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, env)
		}
	}
}

func TestDecode_Valid(t *testing.T) {
	env, err := DecodeString(`{"messageType":"users","dataArray":["carol"]}`)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if env.Kind != KindUsers || !reflect.DeepEqual(env.List, []string{"carol"}) {
		t.Errorf("unexpected envelope: %+v", env)
	}

	env, err = DecodeString(`  {"messageType":"register","data":"dave","extra":1}  `)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if text, ok := env.Text(); !ok || text != "dave" {
		t.Errorf("Text() = %q, %v; want dave, true", text, ok)
	}
}

func TestDecode_Failures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"hello",
		"42",
		"null",
		`["users"]`,
		`{`,
		`{}`,
		`{"messageType":""}`,
		`{"messageType":"join","data":"x"}`,
		`{"messageType":"USERS","dataArray":[]}`,
		`{"MESSAGETYPE":"users","DataArray":["x"]}`,
		`{"messageType":"users","DataArray":["x"]}`,
		`{"messageType":"message","Data":"x"}`,
		`{"messageType":"message","data":"x","messagetype":"users"}`,
		`{"messageType":7}`,
		`{"messageType":"users"}`,
		`{"messageType":"users","dataArray":null}`,
		`{"messageType":"users","dataArray":"alice"}`,
		`{"messageType":"users","dataArray":[1,2]}`,
		`{"messageType":"users","dataArray":[],"data":"x"}`,
		`{"messageType":"register","dataArray":["x"]}`,
		`{"messageType":"message","data":5}`,
		`{"messageType":"message","data":"x"} trailing`,
		strings.Repeat("{", 64),
	}

	for _, in := range inputs {
		_, err := DecodeString(in)
		if err == nil {
			t.Errorf("Decode(%q) succeeded, want error", in)
			continue
		}
		if !errs.IsDecode(err) {
			t.Errorf("Decode(%q) error %T is not a DecodeError", in, err)
		}
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{KindUsers, KindRegister, KindMessage} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("leave").Valid() {
		t.Error("leave should not be valid")
	}
}

func TestUsers_CopiesInput(t *testing.T) {
	names := []string{"alice"}
	env := Users(names)
	names[0] = "mallory"

	if env.List[0] != "alice" {
		t.Errorf("Users shares caller slice: %v", env.List)
	}
}
