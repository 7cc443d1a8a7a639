package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the single operator account the dashboard accepts.
type Credentials struct {
	email        string
	passwordHash []byte
}

var _ ports.CredentialVerifier = (*Credentials)(nil)

// NewCredentials builds the operator account. A plain password is hashed
// at startup; passwordHash, when set, must be a bcrypt hash and wins.
func NewCredentials(email, password, passwordHash string) (*Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("operator email is required")
	}

	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.New("operator password hash is not a bcrypt hash")
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = h
	default:
		return nil, errors.New("operator password is required")
	}

	return &Credentials{email: email, passwordHash: hash}, nil
}

// Verify reports whether email and password match the operator account.
// Email comparison ignores case and surrounding whitespace.
func (c *Credentials) Verify(email, password string) bool {
	given := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(strings.ToLower(c.email))) == 1

	// Always run bcrypt so a wrong email costs the same as a wrong password
	passwordOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil

	return emailOK && passwordOK
}

// Email returns the configured operator email.
func (c *Credentials) Email() string {
	return c.email
}
