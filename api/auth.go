package api

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredential is the single administrator identity allowed to mutate
// the business rules. The password is held only as a bcrypt hash; the
// plaintext never touches configuration or logs.
type AdminCredential struct {
	Username     string
	PasswordHash string
}

// Verify compares a caller identity against the credential. Both legs
// run unconditionally so a mismatched username costs the same as a
// mismatched password.
func (c AdminCredential) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// HashPassword produces a bcrypt hash for provisioning the credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
