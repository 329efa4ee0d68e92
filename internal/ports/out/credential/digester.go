package credential

import "errors"

// ErrTooLong indicates the credential exceeds what the digest algorithm accepts.
var ErrTooLong = errors.New("credential too long")

// Digester maps login credentials to one-way digests.
type Digester interface {
	// Digest returns the digest to store for secret.
	Digest(secret string) (string, error)
	// Matches reports whether secret produces digest.
	Matches(digest string, secret string) bool
}
