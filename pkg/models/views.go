package models

import "time"

// View shapes are the plain data records the permission core returns to its
// callers. No framework or storage types leak across this boundary.

// TagView is a tag as rendered to callers.
type TagView struct {
	Text string `json:"text"`
}

// CommentView is a comment together with the per-caller action flags computed
// by the caller's strategy.
type CommentView struct {
	CommentID CommentID  `json:"comment_id"`
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	UserID    *UserID    `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Editable  bool       `json:"editable"`
	Deletable bool       `json:"deletable"`
}

// ArticleView is an article with its tags and comments, plus the per-caller
// action flags computed by the caller's strategy.
type ArticleView struct {
	ArticleID      ArticleID     `json:"article_id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	AuthorFullName string        `json:"author_full_name"`
	UserID         *UserID       `json:"user_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
	Editable       bool          `json:"editable"`
	Deletable      bool          `json:"deletable"`
	Tags           []TagView     `json:"tags"`
	Comments       []CommentView `json:"comments"`
}

// UserView is a user as rendered in listings and profile lookups. ArticleCount
// and Tags are derived aggregates, not stored fields.
type UserView struct {
	UserID       UserID    `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	ArticleCount int       `json:"article_count"`
	Roles        []string  `json:"roles"`
	Tags         []TagView `json:"tags,omitempty"`
	Deletable    bool      `json:"deletable"`
}

// FullName renders "First Last" for display.
func (v UserView) FullName() string {
	if v.FirstName == "" && v.LastName == "" {
		return AnonymousAuthor
	}
	return v.FirstName + " " + v.LastName
}

// ArticleDraft carries the caller-supplied fields of a create or edit
// operation. TagLine is the freeform tag string; the strategy tokenizes and
// normalizes it.
type ArticleDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TagLine string `json:"tags"`
}

// ProfileUpdate carries a profile edit request. Role is only honored on the
// privileged (administrator) path, where it replaces all existing role
// assignments with exactly the named role.
type ProfileUpdate struct {
	UserID          UserID `json:"user_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
	Role            string `json:"role,omitempty"`
}

// FieldError is a single field-level failure of a profile edit.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProfileResult is the structured outcome of a profile edit. Identity-provider
// rejections (wrong current password, refused new password) are reported here
// rather than raised, because the caller must display several validation
// messages at once.
type ProfileResult struct {
	Succeeded bool         `json:"succeeded"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// ProfileOK is the successful profile edit result.
func ProfileOK() ProfileResult {
	return ProfileResult{Succeeded: true}
}

// ProfileFailed builds a failed result from field errors.
func ProfileFailed(errs ...FieldError) ProfileResult {
	return ProfileResult{Succeeded: false, Errors: errs}
}

// Claims is the cached, serialized summary of a user's identity, roles, and
// derived counters used to avoid re-querying the store on every request.
type Claims struct {
	UserID       string    `msgpack:"user_id" json:"user_id"`
	Email        string    `msgpack:"email" json:"email"`
	FullName     string    `msgpack:"full_name" json:"full_name"`
	Roles        []string  `msgpack:"roles" json:"roles"`
	ArticleCount int       `msgpack:"article_count" json:"article_count"`
	RefreshedAt  time.Time `msgpack:"refreshed_at" json:"refreshed_at"`
}
