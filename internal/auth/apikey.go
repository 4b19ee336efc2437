package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	// DefaultSecretBytes is the entropy of a secret printed by keygen.
	DefaultSecretBytes = 32
	// MinSecretBytes rejects secrets short enough to guess under the /ip limit.
	MinSecretBytes = 16
)

// GenerateSecret returns size random bytes hex-encoded, for use as the
// x-api-key shared secret.
func GenerateSecret(size int) (string, error) {
	if size < MinSecretBytes {
		return "", fmt.Errorf("secret size %d bytes is below the minimum of %d", size, MinSecretBytes)
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
