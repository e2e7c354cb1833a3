package usecase

import (
	"crypto/rand"
	"io"
	"strings"
)

// codeAlphabet avoids visually confusable characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 10

// generateRewardCode creates a random, human-readable reward code.
// Uniqueness is enforced by the store's unique constraint; callers retry
// on collision.
func generateRewardCode() (string, error) {
	buffer := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < codeLength; i++ {
		buffer[i] = codeAlphabet[int(buffer[i])%len(codeAlphabet)]
	}
	return string(buffer), nil
}

// NormalizeCode maps user input to the stored form: trimmed, uppercase.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
