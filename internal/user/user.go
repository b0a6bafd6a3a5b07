package user

import (
	"golang.org/x/crypto/bcrypt"

	"xnote/internal/models"
)

// DefaultAccount is the development fixture account. Deployments
// override it through XNOTE_USERNAME / XNOTE_EMAIL / XNOTE_PASSWORD_HASH.
var DefaultAccount = models.Account{
	Username:       "admin",
	Email:          "admin@example.com",
	PasswordDigest: "$2b$12$b.97.L2k3LM0A0uY07WsE.0aI244izRBMtEq9PFxgO3OTU2p3.D9y",
}

// Store is an account repository over the single configured account.
// A table-backed implementation can replace it without touching the
// auth flow, which only depends on FindByUsername and Authenticate.
type Store struct {
	account models.Account
}

func NewStore(account models.Account) *Store {
	return &Store{account: account}
}

// FindByUsername returns the configured account, or nil for any other
// username.
func (s *Store) FindByUsername(username string) *models.Account {
	if username != s.account.Username {
		return nil
	}
	account := s.account
	return &account
}

// Authenticate returns the account when both username and password
// match, nil otherwise. An unknown username and a wrong password are
// indistinguishable to the caller.
func (s *Store) Authenticate(username, password string) *models.Account {
	account := s.FindByUsername(username)
	if account == nil {
		return nil
	}
	if !VerifyPassword(password, account.PasswordDigest) {
		return nil
	}
	return account
}

// VerifyPassword reports whether plain matches the stored bcrypt digest.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// HashPassword derives a digest suitable for storage.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}
