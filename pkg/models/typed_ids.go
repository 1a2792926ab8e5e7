package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Typed IDs prevent mixing identifiers of different entities at compile time.
// Each wraps a uuid.UUID and implements JSON marshaling plus the sql
// Valuer/Scanner pair so gorm stores them as native uuid columns.

// UserID is a typed ID for users.
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID {
	return UserID{uuid: uuid.New()}
}

func NewUserIDFromUUID(id uuid.UUID) UserID {
	return UserID{uuid: id}
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}
	return UserID{uuid: id}, nil
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &u.uuid)
}

func (u UserID) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	return u.uuid.String(), nil
}

func (u *UserID) Scan(value any) error {
	return scanUUID(value, &u.uuid)
}

func (UserID) GormDataType() string { return "uuid" }

// RoleID is a typed ID for roles.
type RoleID struct {
	uuid uuid.UUID
}

func NewRoleID() RoleID {
	return RoleID{uuid: uuid.New()}
}

func ParseRoleID(s string) (RoleID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoleID{}, fmt.Errorf("invalid role ID: %w", err)
	}
	return RoleID{uuid: id}, nil
}

func (r RoleID) UUID() uuid.UUID { return r.uuid }
func (r RoleID) String() string  { return r.uuid.String() }
func (r RoleID) IsZero() bool    { return r.uuid == uuid.Nil }

func (r RoleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.uuid.String())
}

func (r *RoleID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &r.uuid)
}

func (r RoleID) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.uuid.String(), nil
}

func (r *RoleID) Scan(value any) error {
	return scanUUID(value, &r.uuid)
}

func (RoleID) GormDataType() string { return "uuid" }

// ArticleID is a typed ID for articles.
type ArticleID struct {
	uuid uuid.UUID
}

func NewArticleID() ArticleID {
	return ArticleID{uuid: uuid.New()}
}

func NewArticleIDFromUUID(id uuid.UUID) ArticleID {
	return ArticleID{uuid: id}
}

func ParseArticleID(s string) (ArticleID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ArticleID{}, fmt.Errorf("invalid article ID: %w", err)
	}
	return ArticleID{uuid: id}, nil
}

func (a ArticleID) UUID() uuid.UUID { return a.uuid }
func (a ArticleID) String() string  { return a.uuid.String() }
func (a ArticleID) IsZero() bool    { return a.uuid == uuid.Nil }

func (a ArticleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.uuid.String())
}

func (a *ArticleID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &a.uuid)
}

func (a ArticleID) Value() (driver.Value, error) {
	if a.IsZero() {
		return nil, nil
	}
	return a.uuid.String(), nil
}

func (a *ArticleID) Scan(value any) error {
	return scanUUID(value, &a.uuid)
}

func (ArticleID) GormDataType() string { return "uuid" }

// TagID is a typed ID for tags.
type TagID struct {
	uuid uuid.UUID
}

func NewTagID() TagID {
	return TagID{uuid: uuid.New()}
}

func ParseTagID(s string) (TagID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TagID{}, fmt.Errorf("invalid tag ID: %w", err)
	}
	return TagID{uuid: id}, nil
}

func (t TagID) UUID() uuid.UUID { return t.uuid }
func (t TagID) String() string  { return t.uuid.String() }
func (t TagID) IsZero() bool    { return t.uuid == uuid.Nil }

func (t TagID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.uuid.String())
}

func (t *TagID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &t.uuid)
}

func (t TagID) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.uuid.String(), nil
}

func (t *TagID) Scan(value any) error {
	return scanUUID(value, &t.uuid)
}

func (TagID) GormDataType() string { return "uuid" }

// CommentID is a typed ID for comments.
type CommentID struct {
	uuid uuid.UUID
}

func NewCommentID() CommentID {
	return CommentID{uuid: uuid.New()}
}

func NewCommentIDFromUUID(id uuid.UUID) CommentID {
	return CommentID{uuid: id}
}

func ParseCommentID(s string) (CommentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CommentID{}, fmt.Errorf("invalid comment ID: %w", err)
	}
	return CommentID{uuid: id}, nil
}

func (c CommentID) UUID() uuid.UUID { return c.uuid }
func (c CommentID) String() string  { return c.uuid.String() }
func (c CommentID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c CommentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *CommentID) UnmarshalJSON(data []byte) error {
	return unmarshalJSONID(data, &c.uuid)
}

func (c CommentID) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *CommentID) Scan(value any) error {
	return scanUUID(value, &c.uuid)
}

func (CommentID) GormDataType() string { return "uuid" }

// scanUUID converts a database value into a uuid, accepting the string and
// byte representations drivers produce.
func scanUUID(value any, dst *uuid.UUID) error {
	if value == nil {
		*dst = uuid.Nil
		return nil
	}
	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*dst = id
	case []byte:
		id, err := uuid.Parse(string(v))
		if err != nil {
			return err
		}
		*dst = id
	default:
		return fmt.Errorf("cannot scan %T into uuid", value)
	}
	return nil
}

func unmarshalJSONID(data []byte, dst *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}
