package handler

import "golang.org/x/crypto/bcrypt"

// CredentialStore validates login credentials.
type CredentialStore interface {
	Authenticate(username, password string) bool
}

// DemoCredentials is a fixed in-memory credential store for demos and
// integration tests. Passwords are held only as bcrypt hashes and
// verified in constant time.
type DemoCredentials struct {
	hashes map[string][]byte
}

// demoUsers are the built-in demo accounts.
var demoUsers = map[string]string{
	"admin":   "admin123",
	"analyst": "risk4c$",
	"viewer":  "viewer",
}

// NewDemoCredentials builds the demo credential store, hashing the demo
// passwords at construction so no plaintext survives startup.
func NewDemoCredentials() (*DemoCredentials, error) {
	hashes := make(map[string][]byte, len(demoUsers))
	for user, password := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashes[user] = hash
	}
	return &DemoCredentials{hashes: hashes}, nil
}

// Authenticate reports whether the username/password pair is valid.
func (c *DemoCredentials) Authenticate(username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	hash, ok := c.hashes[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
