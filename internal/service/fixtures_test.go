package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	"healthportal/internal/model"
	"healthportal/internal/repository"
	"healthportal/internal/repository/memory"
)

// newUser stores a user of the given role and returns its principal.
func newUser(t *testing.T, store *repository.Store, email string, role model.Role) auth.Principal {
	t.Helper()
	u := &model.User{Email: email, Role: role, FirstName: "F", LastName: "L", IsActive: true}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func newStore() *repository.Store {
	return memory.NewStore()
}
