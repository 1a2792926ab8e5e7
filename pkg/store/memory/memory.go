// Package memory implements [store.Store] with mutex-guarded in-process maps.
//
// The memory store mirrors the relational semantics of the postgres backend,
// cascade-deleting comments with their article and nulling author references
// when a user is deleted, so the permission core behaves
// identically against either. Transact takes a snapshot of the maps and
// restores it when the unit of work fails, which makes transactional rollback
// testable without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
)

// MemoryStore is an in-process Store for tests and seed dry-runs.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *tables
	inTx bool
}

type tables struct {
	users       map[models.UserID]*models.User
	roles       map[models.RoleID]*models.Role
	userRoles   map[models.UserID]map[models.RoleID]bool
	articles    map[models.ArticleID]*models.Article
	articleTags map[models.ArticleID][]models.TagID
	tags        map[models.TagID]*models.Tag
	comments    map[models.CommentID]*models.Comment
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		data: &tables{
			users:       map[models.UserID]*models.User{},
			roles:       map[models.RoleID]*models.Role{},
			userRoles:   map[models.UserID]map[models.RoleID]bool{},
			articles:    map[models.ArticleID]*models.Article{},
			articleTags: map[models.ArticleID][]models.TagID{},
			tags:        map[models.TagID]*models.Tag{},
			comments:    map[models.CommentID]*models.Comment{},
		},
	}
}

// Migrate is a no-op; the maps are the schema.
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// lock acquires the store mutex unless the receiver is transaction-bound, in
// which case Transact already holds it.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// Transact joins an open transaction or runs fn against a snapshot-guarded
// copy of the tables, restoring the snapshot when fn fails or panics.
func (s *MemoryStore) Transact(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true}

	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				*s.data = *snapshot
				panic(p)
			}
		}()
		err = fn(tx)
	}()
	if err != nil {
		*s.data = *snapshot
	}
	return err
}

// clone copies the map structure and association slices. Entity values are
// never mutated in place (writes replace them), so sharing the pointers with
// the snapshot is safe.
func (t *tables) clone() *tables {
	c := &tables{
		users:       make(map[models.UserID]*models.User, len(t.users)),
		roles:       make(map[models.RoleID]*models.Role, len(t.roles)),
		userRoles:   make(map[models.UserID]map[models.RoleID]bool, len(t.userRoles)),
		articles:    make(map[models.ArticleID]*models.Article, len(t.articles)),
		articleTags: make(map[models.ArticleID][]models.TagID, len(t.articleTags)),
		tags:        make(map[models.TagID]*models.Tag, len(t.tags)),
		comments:    make(map[models.CommentID]*models.Comment, len(t.comments)),
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.roles {
		c.roles[k] = v
	}
	for k, v := range t.userRoles {
		inner := make(map[models.RoleID]bool, len(v))
		for rk, rv := range v {
			inner[rk] = rv
		}
		c.userRoles[k] = inner
	}
	for k, v := range t.articles {
		c.articles[k] = v
	}
	for k, v := range t.articleTags {
		c.articleTags[k] = append([]models.TagID{}, v...)
	}
	for k, v := range t.tags {
		c.tags[k] = v
	}
	for k, v := range t.comments {
		c.comments[k] = v
	}
	return c
}

// User operations

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	cp := *user
	if cp.ID.IsZero() {
		cp.ID = models.NewUserID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	cp.Roles, cp.Articles, cp.Comments = nil, nil, nil
	s.data.users[cp.ID] = &cp
	user.ID = cp.ID
	user.CreatedAt = cp.CreatedAt
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	defer s.rlock()()
	u, ok := s.data.users[id]
	if !ok {
		return nil, nil
	}
	return s.userView(u), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.rlock()()
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, email) {
			return s.userView(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	if _, ok := s.data.users[user.ID]; !ok {
		return nil
	}
	cp := *user
	cp.Roles, cp.Articles, cp.Comments = nil, nil, nil
	cp.UpdatedAt = time.Now().UTC()
	s.data.users[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id models.UserID) error {
	defer s.lock()()
	delete(s.data.users, id)
	delete(s.data.userRoles, id)
	// Historical content survives with an orphaned author reference.
	for aid, a := range s.data.articles {
		if a.UserID != nil && *a.UserID == id {
			cp := *a
			cp.UserID = nil
			s.data.articles[aid] = &cp
		}
	}
	for cid, c := range s.data.comments {
		if c.UserID != nil && *c.UserID == id {
			cp := *c
			cp.UserID = nil
			s.data.comments[cid] = &cp
		}
	}
	return nil
}

func (s *MemoryStore) CountUsersExcluding(ctx context.Context, id models.UserID) (int64, error) {
	defer s.rlock()()
	var count int64
	for uid := range s.data.users {
		if uid != id {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) ListUsersExcluding(ctx context.Context, id models.UserID, offset, limit int) ([]*models.User, error) {
	defer s.rlock()()
	users := []*models.User{}
	for uid, u := range s.data.users {
		if uid == id {
			continue
		}
		users = append(users, s.userView(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return slicePage(users, offset, limit), nil
}

func (s *MemoryStore) SearchUsersByName(ctx context.Context, words []string) ([]*models.User, error) {
	defer s.rlock()()
	users := []*models.User{}
	switch len(words) {
	case 0:
		return users, nil
	case 1:
		w := strings.ToUpper(words[0])
		for _, u := range s.data.users {
			if strings.ToUpper(u.FirstName) == w || strings.ToUpper(u.LastName) == w {
				users = append(users, s.userView(u))
			}
		}
	default:
		w0, w1 := strings.ToUpper(words[0]), strings.ToUpper(words[1])
		for _, u := range s.data.users {
			first, last := strings.ToUpper(u.FirstName), strings.ToUpper(u.LastName)
			if (first == w0 && last == w1) || (first == w1 && last == w0) {
				users = append(users, s.userView(u))
			}
		}
	}
	return users, nil
}

// userView copies the user and populates roles, articles, and article tags,
// matching the preloads the postgres backend performs.
func (s *MemoryStore) userView(u *models.User) *models.User {
	cp := *u
	cp.Roles = nil
	for rid := range s.data.userRoles[u.ID] {
		if role, ok := s.data.roles[rid]; ok {
			r := *role
			cp.Roles = append(cp.Roles, &r)
		}
	}
	sort.Slice(cp.Roles, func(i, j int) bool { return cp.Roles[i].Name < cp.Roles[j].Name })
	cp.Articles = nil
	for _, a := range s.data.articles {
		if a.UserID != nil && *a.UserID == u.ID {
			av := *a
			av.Tags = s.tagsOf(a.ID)
			cp.Articles = append(cp.Articles, &av)
		}
	}
	return &cp
}

// Role operations

func (s *MemoryStore) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	defer s.lock()()
	return s.ensureRole(name), nil
}

func (s *MemoryStore) ensureRole(name string) *models.Role {
	for _, r := range s.data.roles {
		if r.Name == name {
			cp := *r
			return &cp
		}
	}
	role := &models.Role{ID: models.NewRoleID(), Name: name}
	s.data.roles[role.ID] = role
	cp := *role
	return &cp
}

func (s *MemoryStore) RolesOf(ctx context.Context, id models.UserID) ([]string, error) {
	defer s.rlock()()
	names := []string{}
	for rid := range s.data.userRoles[id] {
		if role, ok := s.data.roles[rid]; ok {
			names = append(names, role.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) AddUserToRole(ctx context.Context, id models.UserID, roleName string) error {
	defer s.lock()()
	role := s.ensureRole(roleName)
	if s.data.userRoles[id] == nil {
		s.data.userRoles[id] = map[models.RoleID]bool{}
	}
	s.data.userRoles[id][role.ID] = true
	return nil
}

func (s *MemoryStore) RemoveUserFromRoles(ctx context.Context, id models.UserID) error {
	defer s.lock()()
	delete(s.data.userRoles, id)
	return nil
}

func (s *MemoryStore) ReplaceRoles(ctx context.Context, id models.UserID, roleName string) error {
	defer s.lock()()
	role := s.ensureRole(roleName)
	s.data.userRoles[id] = map[models.RoleID]bool{role.ID: true}
	return nil
}

// Article operations

func (s *MemoryStore) CreateArticle(ctx context.Context, article *models.Article) error {
	defer s.lock()()
	cp := *article
	if cp.ID.IsZero() {
		cp.ID = models.NewArticleID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	tags := cp.Tags
	cp.Tags, cp.Comments, cp.User = nil, nil, nil
	s.data.articles[cp.ID] = &cp
	if len(tags) > 0 {
		ids := make([]models.TagID, 0, len(tags))
		for _, t := range tags {
			ids = append(ids, t.ID)
		}
		s.data.articleTags[cp.ID] = ids
	}
	article.ID = cp.ID
	article.CreatedAt = cp.CreatedAt
	return nil
}

func (s *MemoryStore) GetArticle(ctx context.Context, id models.ArticleID) (*models.Article, error) {
	defer s.rlock()()
	a, ok := s.data.articles[id]
	if !ok {
		return nil, nil
	}
	return s.articleView(a), nil
}

func (s *MemoryStore) UpdateArticle(ctx context.Context, article *models.Article) error {
	defer s.lock()()
	if _, ok := s.data.articles[article.ID]; !ok {
		return nil
	}
	cp := *article
	cp.Tags, cp.Comments, cp.User = nil, nil, nil
	now := time.Now().UTC()
	cp.UpdatedAt = &now
	s.data.articles[cp.ID] = &cp
	article.UpdatedAt = &now
	return nil
}

func (s *MemoryStore) DeleteArticle(ctx context.Context, id models.ArticleID) error {
	defer s.lock()()
	delete(s.data.articles, id)
	delete(s.data.articleTags, id)
	// Comments cascade with the article.
	for cid, c := range s.data.comments {
		if c.ArticleID == id {
			delete(s.data.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) CountArticles(ctx context.Context) (int64, error) {
	defer s.rlock()()
	return int64(len(s.data.articles)), nil
}

func (s *MemoryStore) ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	defer s.rlock()()
	return slicePage(s.sortedArticles(nil), offset, limit), nil
}

func (s *MemoryStore) CountArticlesByTags(ctx context.Context, names []string) (int64, error) {
	defer s.rlock()()
	return int64(len(s.sortedArticles(func(a *models.Article) bool { return s.hasAnyTag(a.ID, names) }))), nil
}

func (s *MemoryStore) ListArticlesByTags(ctx context.Context, names []string, offset, limit int) ([]*models.Article, error) {
	defer s.rlock()()
	match := s.sortedArticles(func(a *models.Article) bool { return s.hasAnyTag(a.ID, names) })
	return slicePage(match, offset, limit), nil
}

func (s *MemoryStore) CountArticlesByUser(ctx context.Context, id models.UserID) (int64, error) {
	defer s.rlock()()
	var count int64
	for _, a := range s.data.articles {
		if a.UserID != nil && *a.UserID == id {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) ListArticlesByUser(ctx context.Context, id models.UserID, offset, limit int) ([]*models.Article, error) {
	defer s.rlock()()
	match := s.sortedArticles(func(a *models.Article) bool { return a.UserID != nil && *a.UserID == id })
	return slicePage(match, offset, limit), nil
}

func (s *MemoryStore) ReplaceArticleTags(ctx context.Context, id models.ArticleID, tags []*models.Tag) error {
	defer s.lock()()
	ids := make([]models.TagID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	s.data.articleTags[id] = ids
	return nil
}

func (s *MemoryStore) hasAnyTag(id models.ArticleID, names []string) bool {
	for _, tid := range s.data.articleTags[id] {
		tag, ok := s.data.tags[tid]
		if !ok {
			continue
		}
		for _, n := range names {
			if strings.EqualFold(tag.Name, n) {
				return true
			}
		}
	}
	return false
}

// sortedArticles returns populated article views newest-first, filtered when
// keep is non-nil.
func (s *MemoryStore) sortedArticles(keep func(*models.Article) bool) []*models.Article {
	articles := []*models.Article{}
	for _, a := range s.data.articles {
		if keep != nil && !keep(a) {
			continue
		}
		articles = append(articles, s.articleView(a))
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].CreatedAt.After(articles[j].CreatedAt) })
	return articles
}

// articleView copies the article and populates author, tags, and comments the
// way the postgres backend preloads them.
func (s *MemoryStore) articleView(a *models.Article) *models.Article {
	cp := *a
	if a.UserID != nil {
		if u, ok := s.data.users[*a.UserID]; ok {
			uv := *u
			cp.User = &uv
		}
	}
	cp.Tags = s.tagsOf(a.ID)
	cp.Comments = nil
	for _, c := range s.data.comments {
		if c.ArticleID != a.ID {
			continue
		}
		cv := *c
		if c.UserID != nil {
			if u, ok := s.data.users[*c.UserID]; ok {
				uv := *u
				cv.User = &uv
			}
		}
		cp.Comments = append(cp.Comments, &cv)
	}
	sort.Slice(cp.Comments, func(i, j int) bool { return cp.Comments[i].CreatedAt.Before(cp.Comments[j].CreatedAt) })
	return &cp
}

func (s *MemoryStore) tagsOf(id models.ArticleID) []*models.Tag {
	tags := []*models.Tag{}
	for _, tid := range s.data.articleTags[id] {
		if t, ok := s.data.tags[tid]; ok {
			tv := *t
			tags = append(tags, &tv)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}

// Tag operations

func (s *MemoryStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	defer s.lock()()
	cp := *tag
	if cp.ID.IsZero() {
		cp.ID = models.NewTagID()
	}
	cp.Articles = nil
	s.data.tags[cp.ID] = &cp
	tag.ID = cp.ID
	return nil
}

func (s *MemoryStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	defer s.rlock()()
	for _, t := range s.data.tags {
		if strings.EqualFold(t.Name, name) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

// Comment operations

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer s.lock()()
	cp := *comment
	if cp.ID.IsZero() {
		cp.ID = models.NewCommentID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	cp.User = nil
	s.data.comments[cp.ID] = &cp
	comment.ID = cp.ID
	comment.CreatedAt = cp.CreatedAt
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id models.CommentID) (*models.Comment, error) {
	defer s.rlock()()
	c, ok := s.data.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	defer s.lock()()
	if _, ok := s.data.comments[comment.ID]; !ok {
		return nil
	}
	cp := *comment
	cp.User = nil
	now := time.Now().UTC()
	cp.UpdatedAt = &now
	s.data.comments[cp.ID] = &cp
	comment.UpdatedAt = &now
	return nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id models.CommentID) error {
	defer s.lock()()
	delete(s.data.comments, id)
	return nil
}

func slicePage[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var _ store.Store = (*MemoryStore)(nil)
