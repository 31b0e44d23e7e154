package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const ResetCodeTTL = 15 * time.Minute

// MaxResetAttempts is the number of wrong codes after which the pending code
// is discarded.
const MaxResetAttempts = 5

// GenerateResetCode generates a random 6-digit reset code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ResetCodeKey is the cache key holding the reset code for email.
func ResetCodeKey(email string) string {
	return "reset_code:" + email
}

// ResetAttemptsKey is the cache key counting wrong codes entered for email.
func ResetAttemptsKey(email string) string {
	return "reset_attempts:" + email
}
