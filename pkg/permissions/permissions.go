// Package permissions is the role-dispatched authorization core of the blog
// platform.
//
// An inbound request carries an authenticated [Principal]. The [Resolver]
// inspects its role memberships and returns exactly one [Ops] strategy bound
// to the caller's id: administrators get full access, moderators can edit
// anything but delete only their own content, plain users operate strictly on
// what they own. The three strategies implement the same capability interface;
// only the authorization policy differs, and each policy lives colocated in
// its strategy instead of being scattered through shared methods as runtime
// role checks.
//
// Strategies return plain view shapes from [github.com/inkwell/inkwell/pkg/models]
// and fail with kinded errors from [github.com/inkwell/inkwell/pkg/apperr]:
// absent targets are NotFound on reads and Forbidden on writes, ownership
// violations are Forbidden, malformed input is Validation. After any operation
// that changes a user's article count or roles, the bound strategy notifies
// the [github.com/inkwell/inkwell/pkg/claims.Refresher] so cached session
// state stays consistent.
package permissions

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/claims"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// Principal is the authenticated identity attached to the current request,
// produced by session or token validation outside this module.
type Principal struct {
	UserID models.UserID
	Roles  []string
}

// HasRole reports role membership.
func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Ops is the shared capability interface every role strategy implements. The
// operation signatures are uniform across roles; only the enforced policy
// differs.
type Ops interface {
	// ListAllArticles returns one page of all articles, newest first, and
	// whether more pages follow.
	ListAllArticles(ctx context.Context, page, pageSize int) ([]models.ArticleView, bool, error)
	// ListArticlesByTags returns one page of articles carrying any of the
	// given tags, matched case-insensitively after normalization.
	ListArticlesByTags(ctx context.Context, tags []string, page, pageSize int) ([]models.ArticleView, bool, error)
	// ListArticlesByUser returns one page of the target user's articles;
	// a nil userID resolves to the caller.
	ListArticlesByUser(ctx context.Context, userID *models.UserID, page, pageSize int) ([]models.ArticleView, bool, error)
	// GetArticleByID fails with NotFound when the article is absent.
	GetArticleByID(ctx context.Context, articleID models.ArticleID) (models.ArticleView, error)
	CreateArticle(ctx context.Context, draft models.ArticleDraft) error
	// EditArticle fails with Forbidden when the article is absent or, for
	// ownership-restricted roles, not owned by the caller.
	EditArticle(ctx context.Context, articleID models.ArticleID, draft models.ArticleDraft) error
	// DeleteArticle has the same failure semantics as EditArticle.
	DeleteArticle(ctx context.Context, articleID models.ArticleID) error
	CreateComment(ctx context.Context, articleID models.ArticleID, text string) error
	EditComment(ctx context.Context, commentID models.CommentID, text string) error
	DeleteComment(ctx context.Context, commentID models.CommentID) error
	// ListUsers returns one page of users excluding the caller, with
	// per-user article counts and aggregated tag sets.
	ListUsers(ctx context.Context, page, pageSize int) ([]models.UserView, bool, error)
	// GetUserInfo resolves the caller when userID is nil and fails with
	// NotFound when the target is absent. The second return value lists all
	// assignable role names.
	GetUserInfo(ctx context.Context, userID *models.UserID) (models.UserView, []string, error)
	GetUserInfoByArticleID(ctx context.Context, articleID models.ArticleID) (models.UserView, error)
	// EditUserProfile returns a structured result enumerating field-level
	// failures (wrong current password, rejected new password) instead of
	// an error, because callers display several messages at once.
	EditUserProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error)
	DeleteUserProfile(ctx context.Context, userID models.UserID) error
	// FindUserIDByDisplayName tokenizes the name and matches it against
	// first/last name combinations case-insensitively, in both orders.
	// Returns nil on zero or multiple candidates.
	FindUserIDByDisplayName(ctx context.Context, name string) (*models.UserID, error)
}

// Resolver turns an authenticated principal into the strategy enforcing that
// principal's policy.
type Resolver struct {
	store     store.Store
	ident     identity.Provider
	refresher claims.Refresher
	log       zerolog.Logger
}

// NewResolver wires the resolver's collaborators. Pass claims.Discard{} when
// no session cache is configured.
func NewResolver(s store.Store, ident identity.Provider, refresher claims.Refresher, log zerolog.Logger) *Resolver {
	return &Resolver{store: s, ident: ident, refresher: refresher, log: log}
}

// OpsFor returns the strategy bound to the principal's id. Role priority is
// strict (Administrator over Moderator over User), so a principal holding
// several roles gets the highest-priority strategy, never an error. Fails
// with NotFound when no authenticated identity is present.
func (r *Resolver) OpsFor(principal Principal) (Ops, error) {
	if principal.UserID.IsZero() {
		return nil, apperr.NotFound("no authenticated identity on the request")
	}
	base := ops{
		store:  r.store,
		ident:  r.ident,
		claims: r.refresher,
		caller: principal.UserID,
		log:    r.log.With().Str("user_id", principal.UserID.String()).Logger(),
	}
	switch {
	case principal.HasRole(models.RoleAdministrator):
		return newAdministratorOps(base), nil
	case principal.HasRole(models.RoleModerator):
		return newModeratorOps(base), nil
	default:
		return newUserOps(base), nil
	}
}
