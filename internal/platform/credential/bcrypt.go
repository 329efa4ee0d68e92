package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	credentialport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/credential"
)

// BcryptDigester digests credentials with bcrypt.
type BcryptDigester struct {
	cost int
}

var _ credentialport.Digester = BcryptDigester{}

// NewBcryptDigester returns a digester using cost; values outside bcrypt's range fall back
// to bcrypt.DefaultCost.
func NewBcryptDigester(cost int) BcryptDigester {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptDigester{cost: cost}
}

func (d BcryptDigester) Digest(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), d.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", credentialport.ErrTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Matches reports whether secret hashes to digest under bcrypt's salted comparison. Digests
// are not deterministic, so two digests of one secret never compare equal as strings.
func (d BcryptDigester) Matches(digest string, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
