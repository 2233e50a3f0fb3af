/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used to generate the per-process session ID attached to log records and the
fallback nickname used when no username is configured.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// NicknamePrefix is prepended to generated nicknames.
	NicknamePrefix = "User_"

	// NicknameRandomLength is the length of the Base62 part of a generated nickname.
	NicknameRandomLength = 6
)

// SessionID generates a standard UUID v4 string identifying one client process.
func SessionID() string {
	return uuid.New().String()
}

// UserNickname generates a random nickname with the NicknamePrefix and NicknameRandomLength
// random Base62 characters.
func UserNickname() (string, error) {
	result := make([]byte, NicknameRandomLength)

	for i := range NicknameRandomLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for nickname: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return NicknamePrefix + string(result), nil
}
