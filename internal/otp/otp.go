// Package otp generates and verifies the 6-digit one-time passcodes that
// gate every sensitive account mutation. Codes are stored only as bcrypt
// hashes; comparison is exact-string, never numeric.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Length is the fixed code length: exactly 6 ASCII decimal digits.
const Length = 6

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Generate returns a cryptographically random 6-digit code. Leading zeros
// are preserved: the code is a string, not a number.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Hash returns the bcrypt hash of a plaintext code for storage.
func Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the supplied code matches the stored hash.
func Verify(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// ValidFormat reports whether the supplied string is exactly six ASCII
// digits. Callers reject malformed input before touching any stored hash.
func ValidFormat(code string) bool {
	return codePattern.MatchString(code)
}
