package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/models"
	"github.com/inkwell/inkwell/pkg/store"
	"github.com/inkwell/inkwell/pkg/store/memory"
)

func newUser(t *testing.T, st store.Store, first, last, email string) *models.User {
	t.Helper()
	user := &models.User{FirstName: first, LastName: last, Email: email}
	require.NoError(t, st.CreateUser(context.Background(), user))
	require.False(t, user.ID.IsZero())
	return user
}

func newArticle(t *testing.T, st store.Store, author models.UserID, title string, tags ...*models.Tag) *models.Article {
	t.Helper()
	article := &models.Article{Title: title, Content: "content", UserID: &author, Tags: tags}
	require.NoError(t, st.CreateArticle(context.Background(), article))
	return article
}

func TestTransactRollsBackOnError(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	user := newUser(t, st, "Rollo", "Back", "rollo@example.com")

	boom := errors.New("boom")
	err := st.Transact(ctx, func(tx store.Store) error {
		user.FirstName = "Changed"
		require.NoError(t, tx.UpdateUser(ctx, user))
		other := &models.User{FirstName: "New", LastName: "Person", Email: "new@example.com"}
		require.NoError(t, tx.CreateUser(ctx, other))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Rollo", got.FirstName)
	count, err := st.CountUsersExcluding(ctx, models.UserID{})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestTransactCommitsAndJoins(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()

	err := st.Transact(ctx, func(tx store.Store) error {
		user := &models.User{FirstName: "Tina", LastName: "Tx", Email: "tina@example.com"}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		// A nested Transact joins the open transaction instead of
		// deadlocking on the store mutex.
		return tx.Transact(ctx, func(inner store.Store) error {
			return inner.AddUserToRole(ctx, user.ID, models.RoleUser)
		})
	})
	require.NoError(t, err)

	user, err := st.GetUserByEmail(ctx, "tina@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	roles, err := st.RolesOf(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{models.RoleUser}, roles)
}

func TestDeleteArticleCascadesComments(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	user := newUser(t, st, "Cass", "Cade", "cass@example.com")
	article := newArticle(t, st, user.ID, "Doomed")

	comment := &models.Comment{Text: "soon gone", UserID: &user.ID, ArticleID: article.ID}
	require.NoError(t, st.CreateComment(ctx, comment))

	require.NoError(t, st.DeleteArticle(ctx, article.ID))

	gone, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	orphan, err := st.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	require.Nil(t, orphan)
}

func TestDeleteUserNullsAuthorReferences(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	user := newUser(t, st, "Vera", "Vanish", "vera@example.com")
	article := newArticle(t, st, user.ID, "Left Behind")
	comment := &models.Comment{Text: "also left behind", UserID: &user.ID, ArticleID: article.ID}
	require.NoError(t, st.CreateComment(ctx, comment))

	require.NoError(t, st.DeleteUser(ctx, user.ID))

	kept, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	require.Nil(t, kept.UserID)
	require.Nil(t, kept.User)
	require.Len(t, kept.Comments, 1)
	require.Nil(t, kept.Comments[0].UserID)
}

func TestReplaceArticleTags(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	user := newUser(t, st, "Taggy", "Swap", "taggy@example.com")

	oldTag := &models.Tag{Name: "OLD"}
	require.NoError(t, st.CreateTag(ctx, oldTag))
	article := newArticle(t, st, user.ID, "Retagged", oldTag)

	newTag := &models.Tag{Name: "NEW"}
	require.NoError(t, st.CreateTag(ctx, newTag))
	require.NoError(t, st.ReplaceArticleTags(ctx, article.ID, []*models.Tag{newTag}))

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	require.Equal(t, "NEW", got.Tags[0].Name)

	// The detached tag row survives for reuse.
	kept, err := st.FindTagByName(ctx, "old")
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func TestListArticlesNewestFirst(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	user := newUser(t, st, "Ord", "Dered", "ord@example.com")
	newArticle(t, st, user.ID, "oldest")
	newArticle(t, st, user.ID, "middle")
	newArticle(t, st, user.ID, "newest")

	articles, err := st.ListArticles(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	require.Equal(t, "newest", articles[0].Title)
	require.Equal(t, "oldest", articles[2].Title)
}

func TestSearchUsersByName(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	ivan := newUser(t, st, "Ivan", "Ivanov", "ivan@example.com")
	newUser(t, st, "Ivan", "Petrov", "ivan2@example.com")

	// One word matches first or last name and may hit several users.
	matches, err := st.SearchUsersByName(ctx, []string{"IVAN"})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Two words pin down the pair in either order.
	matches, err = st.SearchUsersByName(ctx, []string{"IVANOV", "IVAN"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, ivan.ID, matches[0].ID)
}

func TestListUsersExcludingOrdersByName(t *testing.T) {
	st := memory.NewMemoryStore()
	ctx := context.Background()
	caller := newUser(t, st, "Me", "Myself", "me@example.com")
	newUser(t, st, "Zed", "Adams", "zed@example.com")
	newUser(t, st, "Amy", "Adams", "amy@example.com")
	newUser(t, st, "Bob", "Zimmer", "bob@example.com")

	users, err := st.ListUsersExcluding(ctx, caller.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "Amy", users[0].FirstName)
	require.Equal(t, "Zed", users[1].FirstName)
	require.Equal(t, "Bob", users[2].FirstName)
}
