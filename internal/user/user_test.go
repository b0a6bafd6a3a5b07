package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"xnote/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewStore(models.Account{
		Username:       "admin",
		Email:          "admin@example.com",
		PasswordDigest: string(digest),
	})
}

func TestFindByUsername(t *testing.T) {
	s := testStore(t)

	account := s.FindByUsername("admin")
	require.NotNil(t, account)
	assert.Equal(t, "admin@example.com", account.Email)

	assert.Nil(t, s.FindByUsername("root"))
	assert.Nil(t, s.FindByUsername(""))
}

func TestAuthenticate(t *testing.T) {
	s := testStore(t)

	account := s.Authenticate("admin", "correct horse")
	require.NotNil(t, account)
	assert.Equal(t, "admin", account.Username)

	// Wrong password and unknown username fail the same way.
	assert.Nil(t, s.Authenticate("admin", "wrong"))
	assert.Nil(t, s.Authenticate("root", "correct horse"))
	assert.Nil(t, s.Authenticate("", ""))
}

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, VerifyPassword("s3cret", digest))
	assert.False(t, VerifyPassword("s3cret ", digest))
	assert.False(t, VerifyPassword("", digest))
}
