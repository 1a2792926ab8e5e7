package inkwell

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/permissions"
	"github.com/inkwell/inkwell/pkg/store"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "123456"

var (
	seedFirstNames = []string{"Anna", "Boris", "Clara", "Dmitri", "Elena", "Felix", "Galina", "Henry", "Inga", "Jakob"}
	seedLastNames  = []string{"Orlov", "Smirnov", "Volkov", "Kuznetsov", "Popov", "Lebedev", "Novikov", "Morozov", "Petrov", "Sokolov"}
	seedTitles     = []string{"Notes on Concurrency", "A Field Guide to Indexing", "Why Caches Lie", "Migrations Without Fear", "Profiling in Anger", "The Case for Boring Tools"}
	seedTagLines   = []string{"go, databases", "performance tuning", "redis caching", "postgres go", "testing, tooling", "concurrency"}
	seedComments   = []string{"Great write-up, thanks.", "Disagree with the second point.", "This saved me an afternoon.", "Do you have benchmarks for this?", "Typo in the third paragraph.", "Following up with my own results soon."}
)

const seedContent = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
	"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."

// Seed populates an empty database with demo data: the fixed roles, three
// well-known accounts matching the documentation, and generated users,
// articles, and comments sized by cfg. Content is written through the
// permission strategies, so seeding exercises the same paths as live
// traffic. Generation is deterministic for a given configuration.
func Seed(ctx context.Context, st store.Store, ident *identity.Manager, resolver *permissions.Resolver, cfg config.SeedConfig, force bool, log zerolog.Logger) error {
	total, err := st.CountUsersExcluding(ctx, models.UserID{})
	if err != nil {
		return err
	}
	if total > 0 && !force {
		log.Info().Int64("users", total).Msg("database is not empty, skipping seed")
		return nil
	}

	for _, name := range models.AllRoleNames() {
		if _, err := st.EnsureRole(ctx, name); err != nil {
			return err
		}
	}

	fixed := []struct {
		first, last, email, role string
	}{
		{"Ivan", "Ivanov", "ivan.ivanov@example.com", models.RoleAdministrator},
		{"Petr", "Petrov", "petr.petrov@example.com", models.RoleUser},
		{"Sidor", "Sidorov", "sidor.sidorov@example.com", models.RoleUser},
	}

	var authors []permissions.Principal
	for _, f := range fixed {
		user := &models.User{FirstName: f.first, LastName: f.last, Email: f.email}
		if err := ident.Register(ctx, user, SeedPassword, f.role); err != nil {
			return fmt.Errorf("failed to seed %s: %w", f.email, err)
		}
		authors = append(authors, permissions.Principal{UserID: user.ID, Roles: []string{f.role}})
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < cfg.Users; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		role := models.RoleUser
		if i%5 == 4 {
			role = models.RoleModerator
		}
		user := &models.User{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		}
		if err := ident.Register(ctx, user, SeedPassword, role); err != nil {
			return fmt.Errorf("failed to seed user %d: %w", i, err)
		}
		authors = append(authors, permissions.Principal{UserID: user.ID, Roles: []string{role}})
	}

	for i := 0; i < cfg.Articles; i++ {
		author := authors[rng.Intn(len(authors))]
		ops, err := resolver.OpsFor(author)
		if err != nil {
			return err
		}
		draft := models.ArticleDraft{
			Title:   fmt.Sprintf("%s #%d", seedTitles[rng.Intn(len(seedTitles))], i+1),
			Content: seedContent,
			TagLine: seedTagLines[rng.Intn(len(seedTagLines))],
		}
		if err := ops.CreateArticle(ctx, draft); err != nil {
			return fmt.Errorf("failed to seed article %d: %w", i, err)
		}
	}

	articles, err := st.ListArticles(ctx, 0, cfg.Articles)
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Comments && len(articles) > 0; i++ {
		author := authors[rng.Intn(len(authors))]
		ops, err := resolver.OpsFor(author)
		if err != nil {
			return err
		}
		article := articles[rng.Intn(len(articles))]
		if err := ops.CreateComment(ctx, article.ID, seedComments[rng.Intn(len(seedComments))]); err != nil {
			return fmt.Errorf("failed to seed comment %d: %w", i, err)
		}
	}

	log.Info().
		Int("users", len(authors)).
		Int("articles", cfg.Articles).
		Int("comments", cfg.Comments).
		Msg("seed complete")
	return nil
}

// Seed runs the seed command against the application's store.
func (a *App) Seed(ctx context.Context, cmd *SeedCommand) error {
	return Seed(ctx, a.store, a.ident, a.resolver, a.config.Seed, cmd.Force, a.log.Logger)
}
