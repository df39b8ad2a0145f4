package repositories

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2021, 10, 2, 12, 0, 0, 0, time.UTC)

func TestPostRepository(t *testing.T) {
	store := newTestStore(t)
	repo := store.Posts

	t.Run("create and get post", func(t *testing.T) {
		post := &models.Post{
			Text:     "This is a test post content",
			PubDate:  baseTime,
			AuthorID: 1,
			Author:   &models.User{ID: 1, Username: "leo"},
		}

		err := repo.Create(post)
		require.NoError(t, err)
		assert.Greater(t, post.ID, 0)

		retrieved, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Text, retrieved.Text)
		assert.Equal(t, 1, retrieved.AuthorID)
		assert.True(t, baseTime.Equal(retrieved.PubDate))
		assert.Nil(t, retrieved.Author, "relations are not persisted")
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := repo.GetByID(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update keeps publication date", func(t *testing.T) {
		post := &models.Post{Text: "Original content", PubDate: baseTime, AuthorID: 1}
		require.NoError(t, repo.Create(post))

		post.Text = "Updated content"
		post.PubDate = baseTime.Add(48 * time.Hour)
		require.NoError(t, repo.Update(post))
		assert.True(t, baseTime.Equal(post.PubDate))

		updated, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated content", updated.Text)
		assert.True(t, baseTime.Equal(updated.PubDate))
	})

	t.Run("update missing post", func(t *testing.T) {
		err := repo.Update(&models.Post{ID: 9999, Text: "x", AuthorID: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepositoryListing(t *testing.T) {
	store := newTestStore(t)
	repo := store.Posts

	groupID := 7
	for i := 0; i < 13; i++ {
		post := &models.Post{
			Text:     "post",
			PubDate:  baseTime.Add(time.Duration(i) * time.Minute),
			AuthorID: 1 + i%2,
		}
		if i < 4 {
			post.GroupID = &groupID
		}
		require.NoError(t, repo.Create(post))
	}

	t.Run("newest first", func(t *testing.T) {
		posts, err := repo.List(PostFilter{}, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 10)
		assert.Equal(t, 13, posts[0].ID)
		for i := 1; i < len(posts); i++ {
			assert.True(t, posts[i-1].PubDate.After(posts[i].PubDate))
		}
	})

	t.Run("second page", func(t *testing.T) {
		posts, err := repo.List(PostFilter{}, 10, 10)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
		assert.Equal(t, 1, posts[2].ID)
	})

	t.Run("offset past end", func(t *testing.T) {
		posts, err := repo.List(PostFilter{}, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("filter by group", func(t *testing.T) {
		posts, err := repo.List(PostFilter{GroupID: &groupID}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 4)
		for _, p := range posts {
			assert.True(t, p.InGroup(groupID))
		}

		count, err := repo.Count(PostFilter{GroupID: &groupID})
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("filter by author", func(t *testing.T) {
		authorID := 2
		count, err := repo.Count(PostFilter{AuthorID: &authorID})
		require.NoError(t, err)
		assert.Equal(t, 6, count)
	})

	t.Run("ties broken by id", func(t *testing.T) {
		tieStore := newTestStore(t)
		first := &models.Post{Text: "a", PubDate: baseTime, AuthorID: 1}
		second := &models.Post{Text: "b", PubDate: baseTime, AuthorID: 1}
		require.NoError(t, tieStore.Posts.Create(first))
		require.NoError(t, tieStore.Posts.Create(second))

		posts, err := tieStore.Posts.List(PostFilter{}, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, second.ID, posts[0].ID)
	})

	t.Run("clear group", func(t *testing.T) {
		require.NoError(t, store.db.Update(func(txn *badger.Txn) error {
			return clearGroupTxn(txn, groupID)
		}))

		count, err := repo.Count(PostFilter{GroupID: &groupID})
		require.NoError(t, err)
		assert.Zero(t, count)

		total, err := repo.Count(PostFilter{})
		require.NoError(t, err)
		assert.Equal(t, 13, total)
	})
}

func TestPostRepositoryConcurrentWrites(t *testing.T) {
	const n = 50

	t.Run("edits of one post keep the last write", func(t *testing.T) {
		store := newTestStore(t)
		post := &models.Post{Text: "original", PubDate: baseTime, AuthorID: 1}
		require.NoError(t, store.Posts.Create(post))

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				edit := &models.Post{ID: post.ID, Text: fmt.Sprintf("edit %d", i), AuthorID: 1}
				assert.NoError(t, store.Posts.Update(edit))
			}(i)
		}
		wg.Wait()

		stored, err := store.Posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Regexp(t, `^edit \d+$`, stored.Text)
		assert.True(t, baseTime.Equal(stored.PubDate))
	})

	t.Run("creates get distinct ids", func(t *testing.T) {
		store := newTestStore(t)

		ids := make(chan int, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				post := &models.Post{Text: fmt.Sprintf("post %d", i), PubDate: baseTime, AuthorID: 1}
				if assert.NoError(t, store.Posts.Create(post)) {
					ids <- post.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[int]bool, n)
		for id := range ids {
			seen[id] = true
		}
		assert.Len(t, seen, n)

		count, err := store.Posts.Count(PostFilter{})
		require.NoError(t, err)
		assert.Equal(t, n, count)
	})
}
