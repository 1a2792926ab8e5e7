// Package store provides the data persistence abstraction for the blog
// platform.
//
// The [Store] interface follows the repository pattern: one wide interface the
// permission strategies and the identity provider program against, with
// interchangeable backends. Two implementations exist:
//
//   - postgres: gorm over PostgreSQL, with cascade policy declared as schema
//     constraints
//   - memory: mutex-guarded maps with snapshot-based transaction rollback,
//     used by tests and seed dry-runs
//
// Conventions shared by all implementations:
//
//   - Get methods return nil without error for missing entities; callers
//     translate absence into their own error kind.
//   - List methods return empty slices for no results, never nil, ordered as
//     documented per method.
//   - Every method takes a context.Context and suspends at each store access;
//     no method spawns background work.
//   - Failures are returned as-is; wrapping into the application error
//     taxonomy happens in the permission core.
package store

import (
	"context"

	"github.com/inkwell/inkwell/pkg/models"
)

// Store is the complete persistence interface of the platform.
type Store interface {
	// User operations. ListUsersExcluding returns users other than the given
	// caller ordered by last name then first name, with roles, articles, and
	// article tags preloaded so callers can derive counts and tag aggregates.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id models.UserID) error
	CountUsersExcluding(ctx context.Context, id models.UserID) (int64, error)
	ListUsersExcluding(ctx context.Context, id models.UserID, offset, limit int) ([]*models.User, error)
	// SearchUsersByName matches uppercased name words against first/last name
	// combinations: one word matches either name, two words match the
	// (first, last) pair in both orders. Returns every candidate.
	SearchUsersByName(ctx context.Context, words []string) ([]*models.User, error)

	// Role operations. EnsureRole creates the named role when missing and
	// returns the row either way. ReplaceRoles removes every assignment of
	// the user and adds exactly the named role.
	EnsureRole(ctx context.Context, name string) (*models.Role, error)
	RolesOf(ctx context.Context, id models.UserID) ([]string, error)
	AddUserToRole(ctx context.Context, id models.UserID, roleName string) error
	RemoveUserFromRoles(ctx context.Context, id models.UserID) error
	ReplaceRoles(ctx context.Context, id models.UserID, roleName string) error

	// Article operations. List methods order newest-first and preload the
	// author, comments with their authors, and tags. The ByTags variants
	// match already-normalized (uppercased) tag names case-insensitively.
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id models.ArticleID) (*models.Article, error)
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id models.ArticleID) error
	CountArticles(ctx context.Context) (int64, error)
	ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error)
	CountArticlesByTags(ctx context.Context, names []string) (int64, error)
	ListArticlesByTags(ctx context.Context, names []string, offset, limit int) ([]*models.Article, error)
	CountArticlesByUser(ctx context.Context, id models.UserID) (int64, error)
	ListArticlesByUser(ctx context.Context, id models.UserID, offset, limit int) ([]*models.Article, error)
	// ReplaceArticleTags swaps the article's tag associations for exactly the
	// given set. Detached tags are not deleted.
	ReplaceArticleTags(ctx context.Context, id models.ArticleID, tags []*models.Tag) error

	// Tag operations. FindTagByName matches case-insensitively against the
	// stored (uppercased) name.
	CreateTag(ctx context.Context, tag *models.Tag) error
	FindTagByName(ctx context.Context, name string) (*models.Tag, error)

	// Comment operations.
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id models.CommentID) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id models.CommentID) error

	// Transact runs fn inside a transaction. When the receiver is already
	// transaction-bound, fn joins the open transaction instead of nesting a
	// new one. Otherwise a transaction is opened, committed when fn returns
	// nil, and rolled back when fn returns an error or panics; the handle is
	// released in every outcome.
	Transact(ctx context.Context, fn func(Store) error) error

	// Migrate creates or updates the backing schema.
	Migrate(ctx context.Context) error

	// Close releases the backing connection.
	Close() error
}
