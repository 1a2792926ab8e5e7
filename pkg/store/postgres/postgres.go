// Package postgres implements [store.Store] over PostgreSQL using GORM.
//
// The schema maps the [github.com/inkwell/inkwell/pkg/models] entities onto
// relational tables: users, roles with a user_roles join table, articles with
// an article_tags join table, tags, and comments. Cascade policy lives in the
// schema itself: deleting an article cascades to its comments, and deleting a
// user nulls the author reference on surviving articles and comments, so the
// permission core can rely on those guarantees instead of traversing
// relationships by hand.
//
// Individual operations use GORM's per-statement atomicity. Multi-step units
// (registration, the administrator's privileged profile edit) run through
// [PostgresStore.Transact], which joins an open transaction when the receiver
// is already transaction-bound and otherwise opens, commits, and rolls back a
// fresh one.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// PostgresStore implements the Store interface using PostgreSQL with GORM.
type PostgresStore struct {
	db   *gorm.DB
	inTx bool
}

// NewPostgresStore connects to PostgreSQL and returns the store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates missing tables, columns, indexes, and foreign key
// constraints using GORM's AutoMigrate. Safe to run repeatedly: it only adds
// schema elements and never drops data.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Article{},
		&models.Tag{},
		&models.Comment{},
	)
}

// Close closes the database connection. Transaction-bound stores share the
// parent connection and must not close it.
func (s *PostgresStore) Close() error {
	if s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transact joins the open transaction when the receiver is already bound to
// one; otherwise it opens a transaction, commits on success, and rolls back on
// error or panic.
func (s *PostgresStore) Transact(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx, inTx: true})
	})
}

// User operations

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *PostgresStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "LOWER(email) = LOWER(?)", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Omit("Roles", "Articles", "Comments").Save(user).Error
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id models.UserID) error {
	// Role assignments go with the user; articles and comments survive with
	// a nulled author reference per the schema constraints.
	if err := s.db.WithContext(ctx).Model(&models.User{ID: id}).Association("Roles").Clear(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (s *PostgresStore) CountUsersExcluding(ctx context.Context, id models.UserID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id <> ?", id).Count(&count).Error
	return count, err
}

func (s *PostgresStore) ListUsersExcluding(ctx context.Context, id models.UserID, offset, limit int) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.WithContext(ctx).
		Where("id <> ?", id).
		Order("last_name, first_name").
		Offset(offset).Limit(limit).
		Preload("Roles").
		Preload("Articles").
		Preload("Articles.Tags").
		Find(&users).Error
	return users, err
}

func (s *PostgresStore) SearchUsersByName(ctx context.Context, words []string) ([]*models.User, error) {
	users := []*models.User{}
	switch len(words) {
	case 0:
		return users, nil
	case 1:
		w := strings.ToUpper(words[0])
		err := s.db.WithContext(ctx).
			Where("UPPER(first_name) = ? OR UPPER(last_name) = ?", w, w).
			Find(&users).Error
		return users, err
	default:
		w0, w1 := strings.ToUpper(words[0]), strings.ToUpper(words[1])
		err := s.db.WithContext(ctx).
			Where("(UPPER(first_name) = ? AND UPPER(last_name) = ?) OR (UPPER(first_name) = ? AND UPPER(last_name) = ?)",
				w0, w1, w1, w0).
			Find(&users).Error
		return users, err
	}
}

// Role operations

func (s *PostgresStore) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.WithContext(ctx).First(&role, "name = ?", name).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	role = models.Role{Name: name}
	if err := s.db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *PostgresStore) RolesOf(ctx context.Context, id models.UserID) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", id).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}

func (s *PostgresStore) AddUserToRole(ctx context.Context, id models.UserID, roleName string) error {
	role, err := s.EnsureRole(ctx, roleName)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.User{ID: id}).Association("Roles").Append(role)
}

func (s *PostgresStore) RemoveUserFromRoles(ctx context.Context, id models.UserID) error {
	return s.db.WithContext(ctx).Model(&models.User{ID: id}).Association("Roles").Clear()
}

func (s *PostgresStore) ReplaceRoles(ctx context.Context, id models.UserID, roleName string) error {
	role, err := s.EnsureRole(ctx, roleName)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.User{ID: id}).Association("Roles").Replace(role)
}

// Article operations

func (s *PostgresStore) CreateArticle(ctx context.Context, article *models.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

func (s *PostgresStore) GetArticle(ctx context.Context, id models.ArticleID) (*models.Article, error) {
	var article models.Article
	err := s.articleQuery(ctx).First(&article, "articles.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (s *PostgresStore) UpdateArticle(ctx context.Context, article *models.Article) error {
	now := time.Now().UTC()
	article.UpdatedAt = &now
	return s.db.WithContext(ctx).Omit("Tags", "Comments", "User").Save(article).Error
}

func (s *PostgresStore) DeleteArticle(ctx context.Context, id models.ArticleID) error {
	// Detach shared tags first; comments cascade with the article row.
	if err := s.db.WithContext(ctx).Model(&models.Article{ID: id}).Association("Tags").Clear(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id).Error
}

func (s *PostgresStore) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Article{}).Count(&count).Error
	return count, err
}

func (s *PostgresStore) ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := s.articleQuery(ctx).
		Order("articles.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (s *PostgresStore) CountArticlesByTags(ctx context.Context, names []string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("articles.id IN (?)", s.taggedArticleIDs(names)).
		Count(&count).Error
	return count, err
}

func (s *PostgresStore) ListArticlesByTags(ctx context.Context, names []string, offset, limit int) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := s.articleQuery(ctx).
		Where("articles.id IN (?)", s.taggedArticleIDs(names)).
		Order("articles.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (s *PostgresStore) CountArticlesByUser(ctx context.Context, id models.UserID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Article{}).Where("user_id = ?", id).Count(&count).Error
	return count, err
}

func (s *PostgresStore) ListArticlesByUser(ctx context.Context, id models.UserID, offset, limit int) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := s.articleQuery(ctx).
		Where("articles.user_id = ?", id).
		Order("articles.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (s *PostgresStore) ReplaceArticleTags(ctx context.Context, id models.ArticleID, tags []*models.Tag) error {
	return s.db.WithContext(ctx).Model(&models.Article{ID: id}).Association("Tags").Replace(tags)
}

// articleQuery preloads the associations every article view needs.
func (s *PostgresStore) articleQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Article{}).
		Preload("User").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User")
}

// taggedArticleIDs builds the subquery selecting article ids carrying any of
// the normalized tag names.
func (s *PostgresStore) taggedArticleIDs(names []string) *gorm.DB {
	return s.db.Table("article_tags").
		Select("article_tags.article_id").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("UPPER(tags.name) IN ?", names)
}

// Tag operations

func (s *PostgresStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	return s.db.WithContext(ctx).Create(tag).Error
}

func (s *PostgresStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, "UPPER(name) = ?", strings.ToUpper(name)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// Comment operations

func (s *PostgresStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *PostgresStore) GetComment(ctx context.Context, id models.CommentID) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (s *PostgresStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	comment.UpdatedAt = &now
	return s.db.WithContext(ctx).Omit("User").Save(comment).Error
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id models.CommentID) error {
	return s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

var _ store.Store = (*PostgresStore)(nil)
