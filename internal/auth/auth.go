// Package auth checks login credentials against the users table.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// bcryptPrefixes mark a stored password as a bcrypt hash.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// IsHash reports whether stored looks like a bcrypt hash.
func IsHash(stored string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return true
		}
	}
	return false
}

// Verify compares a login password with the stored value. Stored bcrypt
// hashes are checked with bcrypt; anything else must match exactly.
func Verify(stored, given string) bool {
	if IsHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// Authenticate trims username and password the way they are read from the
// prompt and checks them against users. It returns the trimmed username,
// or ErrAuthFailed.
func Authenticate(users map[string]string, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	stored, ok := users[username]
	if !ok || !Verify(stored, password) {
		return "", types.ErrAuthFailed
	}
	return username, nil
}

// Hash returns a bcrypt hash of password suitable for users.csv.
func Hash(password string) (string, error) {
	if password == "" {
		return "", &types.ValidationError{Field: "password", Message: "password cannot be empty"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
