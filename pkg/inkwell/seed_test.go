package inkwell

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/claims"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/permissions"
	"github.com/inkwell/inkwell/pkg/store/memory"
)

func TestSeedPopulatesEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := memory.NewMemoryStore()
	ident := identity.NewManager(st)
	resolver := permissions.NewResolver(st, ident, claims.Discard{}, zerolog.Nop())
	cfg := config.SeedConfig{Users: 5, Articles: 8, Comments: 12}

	require.NoError(t, Seed(ctx, st, ident, resolver, cfg, false, zerolog.Nop()))

	// The three well-known accounts plus the generated ones.
	users, err := st.CountUsersExcluding(ctx, models.UserID{})
	require.NoError(t, err)
	require.EqualValues(t, 3+cfg.Users, users)

	admin, err := st.GetUserByEmail(ctx, "ivan.ivanov@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	roles, err := st.RolesOf(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, []string{models.RoleAdministrator}, roles)

	ok, err := ident.CheckPassword(ctx, admin, SeedPassword)
	require.NoError(t, err)
	require.True(t, ok)

	articles, err := st.CountArticles(ctx)
	require.NoError(t, err)
	require.EqualValues(t, cfg.Articles, articles)

	listed, err := st.ListArticles(ctx, 0, cfg.Articles)
	require.NoError(t, err)
	var comments int
	for _, a := range listed {
		comments += len(a.Comments)
	}
	require.Equal(t, cfg.Comments, comments)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := memory.NewMemoryStore()
	ident := identity.NewManager(st)
	resolver := permissions.NewResolver(st, ident, claims.Discard{}, zerolog.Nop())

	existing := &models.User{FirstName: "Already", LastName: "Here", Email: "already@example.com"}
	require.NoError(t, ident.Register(ctx, existing, "secret123", models.RoleUser))

	cfg := config.SeedConfig{Users: 5, Articles: 8, Comments: 12}
	require.NoError(t, Seed(ctx, st, ident, resolver, cfg, false, zerolog.Nop()))

	users, err := st.CountUsersExcluding(ctx, models.UserID{})
	require.NoError(t, err)
	require.EqualValues(t, 1, users)

	// Force overrides the emptiness check.
	require.NoError(t, Seed(ctx, st, ident, resolver, cfg, true, zerolog.Nop()))
	users, err = st.CountUsersExcluding(ctx, models.UserID{})
	require.NoError(t, err)
	require.EqualValues(t, 1+3+cfg.Users, users)
}
