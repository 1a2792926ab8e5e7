package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store/memory"
)

func TestRegisterCreatesUserWithRole(t *testing.T) {
	st := memory.NewMemoryStore()
	m := identity.NewManager(st)
	ctx := context.Background()

	user := &models.User{FirstName: "Ivan", LastName: "Ivanov", Email: "ivan@example.com"}
	require.NoError(t, m.Register(ctx, user, "secret123", models.RoleUser))
	require.False(t, user.ID.IsZero())
	require.NotEmpty(t, user.SecurityStamp)

	roles, err := m.Roles(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{models.RoleUser}, roles)

	found, err := m.FindByEmail(ctx, "ivan@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	// The hash never stores the raw password.
	require.NotContains(t, found.PasswordHash, "secret123")
}

func TestCreateRejectsShortPassword(t *testing.T) {
	m := identity.NewManager(memory.NewMemoryStore())
	user := &models.User{FirstName: "A", LastName: "B", Email: "short@example.com"}
	err := m.Create(context.Background(), user, "12345")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	st := memory.NewMemoryStore()
	m := identity.NewManager(st)
	ctx := context.Background()

	first := &models.User{FirstName: "First", LastName: "In", Email: "Dup@Example.com"}
	require.NoError(t, m.Create(ctx, first, "secret123"))

	// Email comparison is case-insensitive.
	second := &models.User{FirstName: "Second", LastName: "In", Email: "dup@example.com"}
	err := m.Create(ctx, second, "secret123")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCheckAndChangePassword(t *testing.T) {
	st := memory.NewMemoryStore()
	m := identity.NewManager(st)
	ctx := context.Background()

	user := &models.User{FirstName: "Pw", LastName: "Holder", Email: "pw@example.com"}
	require.NoError(t, m.Create(ctx, user, "original1"))
	stamp := user.SecurityStamp

	ok, err := m.CheckPassword(ctx, user, "original1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.CheckPassword(ctx, user, "not-it")
	require.NoError(t, err)
	require.False(t, ok)

	err = m.ChangePassword(ctx, user, "not-it", "replacement1")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = m.ChangePassword(ctx, user, "original1", "short")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, m.ChangePassword(ctx, user, "original1", "replacement1"))
	// Password changes rotate the security stamp so stale sessions die.
	require.NotEqual(t, stamp, user.SecurityStamp)

	stored, err := m.FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err = m.CheckPassword(ctx, stored, "replacement1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSetPasswordSkipsVerification(t *testing.T) {
	st := memory.NewMemoryStore()
	m := identity.NewManager(st)
	ctx := context.Background()

	user := &models.User{FirstName: "Priv", LastName: "Edit", Email: "priv@example.com"}
	require.NoError(t, m.Create(ctx, user, "original1"))
	require.NoError(t, m.SetPassword(ctx, user, "admin-set1"))

	stored, err := m.FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := m.CheckPassword(ctx, stored, "admin-set1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeleteMissingUser(t *testing.T) {
	m := identity.NewManager(memory.NewMemoryStore())
	err := m.Delete(context.Background(), models.NewUserID())
	require.True(t, apperr.IsNotFound(err))
}

func TestUpdateSecurityStampRotates(t *testing.T) {
	st := memory.NewMemoryStore()
	m := identity.NewManager(st)
	ctx := context.Background()

	user := &models.User{FirstName: "Stamp", LastName: "Spin", Email: "stamp@example.com"}
	require.NoError(t, m.Create(ctx, user, "secret123"))
	before := user.SecurityStamp

	require.NoError(t, m.UpdateSecurityStamp(ctx, user.ID))
	after, err := m.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, before, after.SecurityStamp)

	err = m.UpdateSecurityStamp(ctx, models.NewUserID())
	require.True(t, apperr.IsNotFound(err))
}
