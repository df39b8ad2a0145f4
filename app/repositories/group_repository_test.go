package repositories

import (
	"testing"

	"yatube/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository(t *testing.T) {
	store := newTestStore(t)
	repo := store.Groups

	cats := &models.Group{Title: "Cats", Slug: "cats", Description: "All about cats"}
	require.NoError(t, repo.Create(cats))
	assert.Greater(t, cats.ID, 0)

	t.Run("get by id and slug", func(t *testing.T) {
		byID, err := repo.GetByID(cats.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cats", byID.Title)

		bySlug, err := repo.GetBySlug("cats")
		require.NoError(t, err)
		assert.Equal(t, cats.ID, bySlug.ID)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := repo.GetBySlug("dogs")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.Create(&models.Group{Title: "Other cats", Slug: "cats", Description: "d"})
		assert.ErrorIs(t, err, ErrDuplicateSlug)

		groups, err := repo.List()
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("list by title descending", func(t *testing.T) {
		require.NoError(t, repo.Create(&models.Group{Title: "Birds", Slug: "birds", Description: "d"}))
		require.NoError(t, repo.Create(&models.Group{Title: "Dogs", Slug: "dogs", Description: "d"}))

		groups, err := repo.List()
		require.NoError(t, err)
		require.Len(t, groups, 3)
		assert.Equal(t, "Dogs", groups[0].Title)
		assert.Equal(t, "Cats", groups[1].Title)
		assert.Equal(t, "Birds", groups[2].Title)
	})
}

func TestGroupRepositoryDelete(t *testing.T) {
	store := newTestStore(t)

	group := &models.Group{Title: "Cats", Slug: "cats", Description: "d"}
	require.NoError(t, store.Groups.Create(group))

	post := &models.Post{Text: "kept", PubDate: baseTime, AuthorID: 1}
	post.SetGroup(group)
	require.NoError(t, store.Posts.Create(post))

	require.NoError(t, store.Groups.Delete(group.ID))

	_, err := store.Groups.GetBySlug("cats")
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := store.Posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.GroupID)

	// The slug is free again once the group is gone.
	assert.NoError(t, store.Groups.Create(&models.Group{Title: "Cats", Slug: "cats", Description: "d"}))

	assert.ErrorIs(t, store.Groups.Delete(9999), ErrNotFound)
}
