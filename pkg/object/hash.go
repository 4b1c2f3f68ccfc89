package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-1 of the envelope "type len\0payload", which
// is the object's storage identity.
func HashObject(t Type, data []byte) Hash {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", t, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Raw returns the 20-byte binary form of the hash, used inside tree
// payloads and the index file.
func (h Hash) Raw() ([]byte, error) {
	if len(h) != 40 {
		return nil, fmt.Errorf("hash %q: want 40 hex chars, have %d", h, len(h))
	}
	raw, err := hex.DecodeString(string(h))
	if err != nil {
		return nil, fmt.Errorf("hash %q: %w", h, err)
	}
	return raw, nil
}

// HashFromRaw converts a 20-byte binary digest to its hex Hash form.
func HashFromRaw(raw []byte) Hash {
	return Hash(hex.EncodeToString(raw))
}

// IsHex reports whether s consists only of lowercase hex digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
