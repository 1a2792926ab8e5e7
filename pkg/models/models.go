// Package models defines the persisted entities of the blog platform and the
// plain view shapes the permission core returns across its boundary.
//
// Entities carry gorm struct tags describing constraints and cascade policy;
// the permission core treats cascade behavior as a store guarantee and never
// reimplements deletion traversal itself. Ownership references that may
// outlive their user (article and comment authors) are modeled as optional
// pointers, and rendering supplies the "Anonymous" fallback label.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role names form a fixed closed set; roles are not user-defined.
const (
	RoleAdministrator = "Administrator"
	RoleModerator     = "Moderator"
	RoleUser          = "User"
)

// AllRoleNames lists the assignable roles in priority order, highest first.
func AllRoleNames() []string {
	return []string{RoleAdministrator, RoleModerator, RoleUser}
}

// MaxTitleLength bounds article titles at write time.
const MaxTitleLength = 200

// AnonymousAuthor is the display label for content whose author no longer
// exists.
const AnonymousAuthor = "Anonymous"

// User is a registered account. Email doubles as the login name. The password
// hash and security stamp are managed exclusively by the identity provider;
// the permission strategies never touch them directly.
type User struct {
	ID            UserID    `gorm:"type:uuid;primary_key" json:"id"`
	FirstName     string    `gorm:"not null" json:"first_name"`
	LastName      string    `gorm:"not null" json:"last_name"`
	Email         string    `gorm:"unique;not null" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	SecurityStamp string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Roles    []*Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Articles []*Article `gorm:"foreignKey:UserID" json:"articles,omitempty"`
	Comments []*Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUserID()
	}
	return nil
}

// FullName renders "First Last" for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Role is one of the three fixed roles, realized as a row so that role
// membership is a plain many-to-many relation.
type Role struct {
	ID   RoleID `gorm:"type:uuid;primary_key" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	Users []*User `gorm:"many2many:user_roles" json:"users,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID.IsZero() {
		r.ID = NewRoleID()
	}
	return nil
}

// Article is the central content unit. The author reference is required at
// creation but nullable in the schema: administrator-driven user deletion
// removes the identity while historical articles remain, rendered with the
// anonymous label. Comments cascade-delete with the article; tags detach but
// survive.
type Article struct {
	ID        ArticleID  `gorm:"type:uuid;primary_key" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UserID    *UserID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Tags     []*Tag     `gorm:"many2many:article_tags" json:"tags,omitempty"`
	Comments []*Comment `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID.IsZero() {
		a.ID = NewArticleID()
	}
	return nil
}

// OwnedBy reports whether the article belongs to the given user.
func (a *Article) OwnedBy(id UserID) bool {
	return a.UserID != nil && *a.UserID == id
}

// Tag names are stored uppercased and are unique by case-insensitive
// comparison; normalization happens at write time in the permission core.
type Tag struct {
	ID   TagID  `gorm:"type:uuid;primary_key" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	Articles []*Article `gorm:"many2many:article_tags" json:"articles,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID.IsZero() {
		t.ID = NewTagID()
	}
	return nil
}

// Comment belongs to exactly one article and cascade-deletes with it. The
// author is optional: comments outlive deleted accounts.
type Comment struct {
	ID        CommentID  `gorm:"type:uuid;primary_key" json:"id"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	UserID    *UserID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	ArticleID ArticleID  `gorm:"type:uuid;not null;index" json:"article_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// BeforeCreate hook to generate ID if not set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewCommentID()
	}
	return nil
}

// OwnedBy reports whether the comment belongs to the given user.
func (c *Comment) OwnedBy(id UserID) bool {
	return c.UserID != nil && *c.UserID == id
}
