package permissions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkwell/inkwell/pkg/apperr"
	"github.com/inkwell/inkwell/pkg/claims"
	"github.com/inkwell/inkwell/pkg/identity"
	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// policy captures the per-role authorization decisions the shared operations
// consult. editAny and deleteAny lift the ownership requirement on content
// writes; listDeletable is the flag user listings carry for this role.
type policy struct {
	editAny       bool
	deleteAny     bool
	listDeletable bool
}

func (p policy) canEdit(caller models.UserID, owner *models.UserID) bool {
	return p.editAny || (owner != nil && *owner == caller)
}

func (p policy) canDelete(caller models.UserID, owner *models.UserID) bool {
	return p.deleteAny || (owner != nil && *owner == caller)
}

// ops is the shared body of the three strategies. The operations below carry
// the behavior common to every role; the embedded policy supplies the
// per-role decisions, and the strategy types add what genuinely differs
// (profile edits and deletion scope).
type ops struct {
	store  store.Store
	ident  identity.Provider
	claims claims.Refresher
	caller models.UserID
	log    zerolog.Logger
	policy policy
}

func (o *ops) ListAllArticles(ctx context.Context, page, pageSize int) ([]models.ArticleView, bool, error) {
	total, err := o.store.CountArticles(ctx)
	if err != nil {
		return nil, false, apperr.Unavailable("article count failed", err)
	}
	offset, size, hasMore, ok := paginate(total, page, pageSize)
	if !ok {
		return []models.ArticleView{}, false, nil
	}
	items, err := o.store.ListArticles(ctx, offset, size)
	if err != nil {
		return nil, false, apperr.Unavailable("article listing failed", err)
	}
	return o.articleViews(items), hasMore, nil
}

func (o *ops) ListArticlesByTags(ctx context.Context, tags []string, page, pageSize int) ([]models.ArticleView, bool, error) {
	names := normalizeTagNames(tags)
	if len(names) == 0 {
		return []models.ArticleView{}, false, nil
	}
	total, err := o.store.CountArticlesByTags(ctx, names)
	if err != nil {
		return nil, false, apperr.Unavailable("article count failed", err)
	}
	offset, size, hasMore, ok := paginate(total, page, pageSize)
	if !ok {
		return []models.ArticleView{}, false, nil
	}
	items, err := o.store.ListArticlesByTags(ctx, names, offset, size)
	if err != nil {
		return nil, false, apperr.Unavailable("article listing failed", err)
	}
	return o.articleViews(items), hasMore, nil
}

func (o *ops) ListArticlesByUser(ctx context.Context, userID *models.UserID, page, pageSize int) ([]models.ArticleView, bool, error) {
	target := o.caller
	if userID != nil {
		target = *userID
	}
	total, err := o.store.CountArticlesByUser(ctx, target)
	if err != nil {
		return nil, false, apperr.Unavailable("article count failed", err)
	}
	offset, size, hasMore, ok := paginate(total, page, pageSize)
	if !ok {
		return []models.ArticleView{}, false, nil
	}
	items, err := o.store.ListArticlesByUser(ctx, target, offset, size)
	if err != nil {
		return nil, false, apperr.Unavailable("article listing failed", err)
	}
	return o.articleViews(items), hasMore, nil
}

func (o *ops) GetArticleByID(ctx context.Context, articleID models.ArticleID) (models.ArticleView, error) {
	article, err := o.store.GetArticle(ctx, articleID)
	if err != nil {
		return models.ArticleView{}, apperr.Unavailable("article lookup failed", err)
	}
	if article == nil {
		return models.ArticleView{}, apperr.NotFoundf("article not found: %s", articleID)
	}
	return o.articleView(article), nil
}

func (o *ops) CreateArticle(ctx context.Context, draft models.ArticleDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	author := o.caller
	article := &models.Article{
		Title:   strings.TrimSpace(draft.Title),
		Content: draft.Content,
		UserID:  &author,
	}
	err := o.store.Transact(ctx, func(tx store.Store) error {
		tags, err := resolveTags(ctx, tx, draft.TagLine)
		if err != nil {
			return err
		}
		article.Tags = tags
		if err := tx.CreateArticle(ctx, article); err != nil {
			return apperr.Unavailable("article creation failed", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.log.Info().Str("article_id", article.ID.String()).Msg("article created")
	o.refreshClaims(ctx, o.caller)
	return nil
}

func (o *ops) EditArticle(ctx context.Context, articleID models.ArticleID, draft models.ArticleDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	article, err := o.store.GetArticle(ctx, articleID)
	if err != nil {
		return apperr.Unavailable("article lookup failed", err)
	}
	if article == nil {
		return apperr.Forbiddenf("article not found: %s", articleID)
	}
	if !o.policy.canEdit(o.caller, article.UserID) {
		return apperr.Forbidden("you cannot edit this article")
	}
	article.Title = strings.TrimSpace(draft.Title)
	article.Content = draft.Content
	return o.store.Transact(ctx, func(tx store.Store) error {
		if err := tx.UpdateArticle(ctx, article); err != nil {
			return apperr.Unavailable("article update failed", err)
		}
		tags, err := resolveTags(ctx, tx, draft.TagLine)
		if err != nil {
			return err
		}
		if err := tx.ReplaceArticleTags(ctx, article.ID, tags); err != nil {
			return apperr.Unavailable("tag update failed", err)
		}
		return nil
	})
}

func (o *ops) DeleteArticle(ctx context.Context, articleID models.ArticleID) error {
	article, err := o.store.GetArticle(ctx, articleID)
	if err != nil {
		return apperr.Unavailable("article lookup failed", err)
	}
	if article == nil {
		return apperr.Forbiddenf("article not found: %s", articleID)
	}
	if !o.policy.canDelete(o.caller, article.UserID) {
		return apperr.Forbidden("you cannot delete this article")
	}
	author := article.UserID
	if err := o.store.DeleteArticle(ctx, articleID); err != nil {
		return apperr.Unavailable("article deletion failed", err)
	}
	o.log.Info().Str("article_id", articleID.String()).Msg("article deleted")
	if author != nil {
		o.refreshClaims(ctx, *author)
	}
	return nil
}

func (o *ops) CreateComment(ctx context.Context, articleID models.ArticleID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.New(http.StatusBadRequest, "comment text cannot be empty")
	}
	article, err := o.store.GetArticle(ctx, articleID)
	if err != nil {
		return apperr.Unavailable("article lookup failed", err)
	}
	if article == nil {
		return apperr.NotFoundf("article not found: %s", articleID)
	}
	author := o.caller
	comment := &models.Comment{
		Text:      text,
		UserID:    &author,
		ArticleID: articleID,
	}
	if err := o.store.CreateComment(ctx, comment); err != nil {
		return apperr.Unavailable("comment creation failed", err)
	}
	return nil
}

func (o *ops) EditComment(ctx context.Context, commentID models.CommentID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.New(http.StatusBadRequest, "comment text cannot be empty")
	}
	comment, err := o.store.GetComment(ctx, commentID)
	if err != nil {
		return apperr.Unavailable("comment lookup failed", err)
	}
	if comment == nil {
		return apperr.Forbiddenf("comment not found: %s", commentID)
	}
	if !o.policy.canEdit(o.caller, comment.UserID) {
		return apperr.Forbidden("you cannot edit this comment")
	}
	comment.Text = text
	if err := o.store.UpdateComment(ctx, comment); err != nil {
		return apperr.Unavailable("comment update failed", err)
	}
	return nil
}

func (o *ops) DeleteComment(ctx context.Context, commentID models.CommentID) error {
	comment, err := o.store.GetComment(ctx, commentID)
	if err != nil {
		return apperr.Unavailable("comment lookup failed", err)
	}
	if comment == nil {
		return apperr.Forbiddenf("comment not found: %s", commentID)
	}
	if !o.policy.canDelete(o.caller, comment.UserID) {
		return apperr.Forbidden("you cannot delete this comment")
	}
	if err := o.store.DeleteComment(ctx, commentID); err != nil {
		return apperr.Unavailable("comment deletion failed", err)
	}
	return nil
}

func (o *ops) ListUsers(ctx context.Context, page, pageSize int) ([]models.UserView, bool, error) {
	total, err := o.store.CountUsersExcluding(ctx, o.caller)
	if err != nil {
		return nil, false, apperr.Unavailable("user count failed", err)
	}
	offset, size, hasMore, ok := paginate(total, page, pageSize)
	if !ok {
		return []models.UserView{}, false, nil
	}
	items, err := o.store.ListUsersExcluding(ctx, o.caller, offset, size)
	if err != nil {
		return nil, false, apperr.Unavailable("user listing failed", err)
	}
	views := make([]models.UserView, 0, len(items))
	for _, u := range items {
		views = append(views, o.userListView(u))
	}
	return views, hasMore, nil
}

func (o *ops) GetUserInfo(ctx context.Context, userID *models.UserID) (models.UserView, []string, error) {
	target := o.caller
	if userID != nil {
		target = *userID
	}
	view, err := o.userInfo(ctx, target)
	if err != nil {
		return models.UserView{}, nil, err
	}
	return view, models.AllRoleNames(), nil
}

func (o *ops) GetUserInfoByArticleID(ctx context.Context, articleID models.ArticleID) (models.UserView, error) {
	article, err := o.store.GetArticle(ctx, articleID)
	if err != nil {
		return models.UserView{}, apperr.Unavailable("article lookup failed", err)
	}
	if article == nil {
		return models.UserView{}, apperr.NotFoundf("article not found: %s", articleID)
	}
	if article.UserID == nil {
		return models.UserView{}, apperr.NotFound("the article's author no longer exists")
	}
	return o.userInfo(ctx, *article.UserID)
}

func (o *ops) FindUserIDByDisplayName(ctx context.Context, name string) (*models.UserID, error) {
	words := strings.Fields(strings.ToUpper(name))
	if len(words) == 0 || len(words) > 2 {
		return nil, nil
	}
	matches, err := o.store.SearchUsersByName(ctx, words)
	if err != nil {
		return nil, apperr.Unavailable("user search failed", err)
	}
	if len(matches) != 1 {
		return nil, nil
	}
	id := matches[0].ID
	return &id, nil
}

// errProfileRejected aborts the profile-edit transaction when the identity
// provider refuses a credential, carrying the rejection out as a field-level
// result rather than an error.
var errProfileRejected = errors.New("profile rejected")

// applyProfile runs the full profile edit as one transactional unit: profile
// fields, optional password change, optional role replacement. A non-empty
// Role is only honored when privileged; callers on the unprivileged path
// clear it first.
func (o *ops) applyProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error) {
	var rejected models.ProfileResult
	err := o.store.Transact(ctx, func(tx store.Store) error {
		idp := o.ident.Bind(tx)
		user, err := idp.FindByID(ctx, profile.UserID)
		if err != nil {
			return err
		}
		user.FirstName = strings.TrimSpace(profile.FirstName)
		user.LastName = strings.TrimSpace(profile.LastName)
		if profile.NewPassword != "" {
			if !privileged {
				ok, err := idp.CheckPassword(ctx, user, profile.CurrentPassword)
				if err != nil {
					return err
				}
				if !ok {
					rejected = models.ProfileFailed(models.FieldError{
						Field:   "current_password",
						Message: "current password is incorrect",
					})
					return errProfileRejected
				}
			}
			if err := idp.SetPassword(ctx, user, profile.NewPassword); err != nil {
				if apperr.KindOf(err) == apperr.KindValidation {
					rejected = models.ProfileFailed(models.FieldError{
						Field:   "new_password",
						Message: fieldMessage(err),
					})
					return errProfileRejected
				}
				return err
			}
		}
		if err := idp.Update(ctx, user); err != nil {
			return err
		}
		if profile.Role != "" {
			if !validRole(profile.Role) {
				return apperr.Validation("unknown role: " + profile.Role)
			}
			if err := idp.RemoveFromRoles(ctx, user.ID); err != nil {
				return err
			}
			if err := idp.AddToRole(ctx, user.ID, profile.Role); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errProfileRejected) {
		return rejected, nil
	}
	if err != nil {
		return models.ProfileResult{}, err
	}
	o.log.Info().Str("target", profile.UserID.String()).Msg("profile updated")
	o.refreshClaims(ctx, profile.UserID)
	return models.ProfileOK(), nil
}

// editOwnProfile is the unprivileged path shared by the moderator and user
// strategies: the target must be the caller, and role reassignment is
// stripped regardless of what the request carries.
func (o *ops) editOwnProfile(ctx context.Context, profile models.ProfileUpdate, privileged bool) (models.ProfileResult, error) {
	if privileged {
		return models.ProfileResult{}, apperr.Forbidden("privileged profile edits are not allowed")
	}
	if profile.UserID != o.caller {
		return models.ProfileResult{}, apperr.Forbidden("you can only edit your own profile")
	}
	profile.Role = ""
	return o.applyProfile(ctx, profile, false)
}

func (o *ops) deleteProfile(ctx context.Context, userID models.UserID) error {
	// Snapshot before the row is gone; the refresher needs the target's
	// identity to drop their cached claims and sessions.
	view, err := o.userInfo(ctx, userID)
	if err != nil {
		return err
	}
	if err := o.ident.Delete(ctx, userID); err != nil {
		return err
	}
	o.log.Info().Str("target", userID.String()).Msg("profile deleted")
	if userID != o.caller {
		if err := o.claims.Refresh(ctx, o.caller, view); err != nil {
			o.log.Warn().Err(err).Str("target", userID.String()).Msg("claims refresh failed")
		}
	}
	return nil
}

func (o *ops) deleteOwnProfile(ctx context.Context, userID models.UserID) error {
	if userID != o.caller {
		return apperr.Forbidden("you can only delete your own profile")
	}
	return o.deleteProfile(ctx, userID)
}

func (o *ops) userInfo(ctx context.Context, target models.UserID) (models.UserView, error) {
	user, err := o.store.GetUser(ctx, target)
	if err != nil {
		return models.UserView{}, apperr.Unavailable("user lookup failed", err)
	}
	if user == nil {
		return models.UserView{}, apperr.NotFoundf("user not found: %s", target)
	}
	count, err := o.store.CountArticlesByUser(ctx, target)
	if err != nil {
		return models.UserView{}, apperr.Unavailable("article count failed", err)
	}
	return models.UserView{
		UserID:       user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		ArticleCount: int(count),
		Roles:        roleNames(user.Roles),
		Deletable:    o.policy.deleteAny || user.ID == o.caller,
	}, nil
}

// refreshClaims rebuilds the target's claims snapshot after an operation that
// changed their article count, roles, or profile fields. Refresh failures are
// logged, not propagated; the underlying operation already succeeded.
func (o *ops) refreshClaims(ctx context.Context, target models.UserID) {
	view, err := o.userInfo(ctx, target)
	if err != nil {
		o.log.Warn().Err(err).Str("target", target.String()).Msg("claims snapshot rebuild failed")
		return
	}
	if err := o.claims.Refresh(ctx, o.caller, view); err != nil {
		o.log.Warn().Err(err).Str("target", target.String()).Msg("claims refresh failed")
	}
}

func validateDraft(draft models.ArticleDraft) error {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return apperr.Validation("article title is required")
	}
	if len(title) > models.MaxTitleLength {
		return apperr.Validation("article title is too long")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return apperr.Validation("article content is required")
	}
	return nil
}

func validRole(name string) bool {
	for _, r := range models.AllRoleNames() {
		if r == name {
			return true
		}
	}
	return false
}

func fieldMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
