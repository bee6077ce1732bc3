package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username, password or role mismatch.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is one configured login. Password may be plain text or a bcrypt hash.
type Credential struct {
	Username string
	Password string
}

// Gate checks logins against one fixed credential per role.
type Gate struct {
	creds map[string]Credential
}

// NewGate builds a gate for the admin and student logins.
func NewGate(admin, student Credential) *Gate {
	return &Gate{creds: map[string]Credential{RoleAdmin: admin, RoleStudent: student}}
}

// Check returns nil when username and password match the credential for role.
func (g *Gate) Check(username, password, role string) error {
	cred, ok := g.creds[role]
	if !ok || cred.Username == "" {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cred.Username)) == 1
	if !userOK || !passwordMatches(cred.Password, password) {
		return ErrInvalidCredentials
	}
	return nil
}

func passwordMatches(stored, given string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(stored)) == 1
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
