package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUserNickname(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		name, err := UserNickname()
		if err != nil {
			t.Fatalf("UserNickname: %v", err)
		}
		if !strings.HasPrefix(name, NicknamePrefix) {
			t.Errorf("UserNickname produced %q without prefix", name)
		}
		raw := strings.TrimPrefix(name, NicknamePrefix)
		if len(raw) != NicknameRandomLength {
			t.Errorf("UserNickname produced %q with %d random characters", name, len(raw))
		}
		for _, char := range raw {
			if !strings.ContainsRune(Base62Chars, char) {
				t.Errorf("UserNickname produced %q with non-Base62 character %q", name, char)
			}
		}
		seen[name] = true
	}
	if len(seen) < 2 {
		t.Error("UserNickname returned the same value every time")
	}
}

func TestSessionID(t *testing.T) {
	id := SessionID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SessionID %q is not a UUID: %v", id, err)
	}
	if id == SessionID() {
		t.Error("SessionID repeated")
	}
}
