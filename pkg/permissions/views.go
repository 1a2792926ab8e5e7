package permissions

import (
	"sort"

	"github.com/inkwell/inkwell/pkg/models"
)

func (o *ops) articleViews(items []*models.Article) []models.ArticleView {
	views := make([]models.ArticleView, 0, len(items))
	for _, a := range items {
		views = append(views, o.articleView(a))
	}
	return views
}

func (o *ops) articleView(a *models.Article) models.ArticleView {
	comments := make([]models.CommentView, 0, len(a.Comments))
	for _, c := range a.Comments {
		comments = append(comments, o.commentView(c))
	}
	return models.ArticleView{
		ArticleID:      a.ID,
		Title:          a.Title,
		Content:        a.Content,
		AuthorFullName: authorName(a.User),
		UserID:         a.UserID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Editable:       o.policy.canEdit(o.caller, a.UserID),
		Deletable:      o.policy.canDelete(o.caller, a.UserID),
		Tags:           tagViews(a.Tags),
		Comments:       comments,
	}
}

func (o *ops) commentView(c *models.Comment) models.CommentView {
	return models.CommentView{
		CommentID: c.ID,
		Text:      c.Text,
		Author:    authorName(c.User),
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Editable:  o.policy.canEdit(o.caller, c.UserID),
		Deletable: o.policy.canDelete(o.caller, c.UserID),
	}
}

// userListView aggregates the preloaded associations into the listing shape:
// article count, role names, and the distinct tag set across the user's
// articles sorted by name.
func (o *ops) userListView(u *models.User) models.UserView {
	seen := make(map[string]struct{})
	var names []string
	for _, a := range u.Articles {
		for _, t := range a.Tags {
			if _, ok := seen[t.Name]; ok {
				continue
			}
			seen[t.Name] = struct{}{}
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	tags := make([]models.TagView, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.TagView{Text: name})
	}
	return models.UserView{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		ArticleCount: len(u.Articles),
		Roles:        roleNames(u.Roles),
		Tags:         tags,
		Deletable:    o.policy.listDeletable,
	}
}

func authorName(u *models.User) string {
	if u == nil {
		return models.AnonymousAuthor
	}
	return u.FullName()
}

func tagViews(tags []*models.Tag) []models.TagView {
	views := make([]models.TagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, models.TagView{Text: t.Name})
	}
	return views
}

func roleNames(roles []*models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
