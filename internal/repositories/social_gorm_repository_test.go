package repositories_test

import (
	"context"
	"testing"
	"time"

	"recipeshare/internal/models"
	"recipeshare/internal/repositories"
	"recipeshare/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMSocialRepository_Likes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewGORMSocialRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com", "pw")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com", "pw")
	soup := testutil.CreateRecipe(t, db, alice.ID, "Soup", "Hot")

	require.NoError(t, repo.AddLike(ctx, &models.Like{RecipeID: soup.ID, UserID: bob.ID}))
	err := repo.AddLike(ctx, &models.Like{RecipeID: soup.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	count, err := repo.CountLikes(ctx, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := repo.HasLiked(ctx, soup.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = repo.HasLiked(ctx, soup.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.RemoveLike(ctx, soup.ID, bob.ID))
	err = repo.RemoveLike(ctx, soup.ID, bob.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	count, err = repo.CountLikes(ctx, soup.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGORMSocialRepository_Comments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewGORMSocialRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com", "pw")
	soup := testutil.CreateRecipe(t, db, alice.ID, "Soup", "Hot")

	first, err := repo.AddComment(ctx, &models.Comment{RecipeID: soup.ID, UserID: alice.ID, Text: "First"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "First", first.Text)
	assert.NotZero(t, first.ID)

	orphan := &models.Comment{RecipeID: soup.ID, UserID: 999, Text: "Ghost", CreatedAt: time.Now().Add(time.Minute)}
	require.NoError(t, db.Create(orphan).Error)

	comments, err := repo.ListComments(ctx, soup.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Ghost", comments[0].Text, "newest first")
	assert.Equal(t, "Anonymous", comments[0].Author)
	assert.Equal(t, "First", comments[1].Text)

	other, err := repo.ListComments(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, other)
}
