package repositories

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens an in-memory store that is closed when the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestIDSequence(t *testing.T) {
	store := newTestStore(t)
	db := store.db

	t.Run("first ID", func(t *testing.T) {
		ids := newIDSequence(db, "test:first")
		id, err := ids.next()
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		ids := newIDSequence(db, "test:sequential")
		for i := 1; i <= 5; i++ {
			id, err := ids.next()
			require.NoError(t, err)
			assert.Equal(t, i, id)
		}
	})

	t.Run("different sequence keys", func(t *testing.T) {
		posts := newIDSequence(db, "test:posts")
		groups := newIDSequence(db, "test:groups")
		_, err := posts.next()
		require.NoError(t, err)

		groupID, err := groups.next()
		require.NoError(t, err)
		assert.Equal(t, 1, groupID, "Group sequence should start from 1")
	})

	t.Run("past one lease", func(t *testing.T) {
		ids := newIDSequence(db, "test:wide")
		var last int
		for i := 0; i < 3*seqBandwidth; i++ {
			id, err := ids.next()
			require.NoError(t, err)
			last = id
		}
		assert.Equal(t, 3*seqBandwidth, last)
	})

	t.Run("release keeps the counter exact", func(t *testing.T) {
		ids := newIDSequence(db, "test:seq")
		id, err := ids.next()
		require.NoError(t, err)
		assert.Equal(t, 1, id)
		require.NoError(t, ids.release())

		again := newIDSequence(db, "test:seq")
		id, err = again.next()
		require.NoError(t, err)
		assert.Equal(t, 2, id)
	})

	t.Run("release without a lease", func(t *testing.T) {
		assert.NoError(t, newIDSequence(db, "test:unused").release())
	})

	t.Run("concurrent callers get distinct IDs", func(t *testing.T) {
		ids := newIDSequence(db, "test:concurrent")
		const n = 200
		got := make(chan int, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := ids.next()
				assert.NoError(t, err)
				got <- id
			}()
		}
		wg.Wait()
		close(got)

		seen := make(map[int]bool, n)
		for id := range got {
			assert.False(t, seen[id], "id %d handed out twice", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}

func TestUpdateRetriesConflicts(t *testing.T) {
	store := newTestStore(t)
	db := store.db
	key := []byte("test:counter")

	// Every goroutine reads then writes the same key, so commits conflict.
	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := update(db, func(txn *badger.Txn) error {
				count := 0
				item, err := txn.Get(key)
				switch {
				case err == nil:
					if err := item.Value(func(val []byte) error {
						count, err = strconv.Atoi(string(val))
						return err
					}); err != nil {
						return err
					}
				case !errors.Is(err, badger.ErrKeyNotFound):
					return err
				}
				return txn.Set(key, []byte(strconv.Itoa(count+1)))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			assert.Equal(t, strconv.Itoa(n), string(val))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestEntityKeyOrdering(t *testing.T) {
	assert.Equal(t, "post:0000000009", string(entityKey(PostKeyPrefix, 9)))
	assert.Less(t, string(entityKey(PostKeyPrefix, 9)), string(entityKey(PostKeyPrefix, 10)))
}

func TestMarshalEntity(t *testing.T) {
	t.Run("marshal post", func(t *testing.T) {
		groupID := 3
		post := &models.Post{
			ID:       1,
			Text:     "Test Content",
			PubDate:  time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC),
			AuthorID: 2,
			GroupID:  &groupID,
		}

		data, err := marshalEntity(post)
		assert.NoError(t, err)

		var unmarshaled models.Post
		err = unmarshalEntity(data, &unmarshaled)
		assert.NoError(t, err)
		assert.Equal(t, post.ID, unmarshaled.ID)
		assert.Equal(t, post.Text, unmarshaled.Text)
		assert.True(t, post.PubDate.Equal(unmarshaled.PubDate))
		assert.Equal(t, 3, *unmarshaled.GroupID)
	})

	t.Run("marshal invalid entity", func(t *testing.T) {
		invalidEntity := struct {
			Ch chan int
		}{
			Ch: make(chan int),
		}

		_, err := marshalEntity(invalidEntity)
		assert.Error(t, err)
	})
}

func TestUnmarshalEntity(t *testing.T) {
	t.Run("unmarshal post", func(t *testing.T) {
		data := []byte(`{"id":1,"text":"Test Content","author_id":4}`)
		var post models.Post
		err := unmarshalEntity(data, &post)
		assert.NoError(t, err)
		assert.Equal(t, 1, post.ID)
		assert.Equal(t, "Test Content", post.Text)
		assert.Equal(t, 4, post.AuthorID)
		assert.Nil(t, post.GroupID)
	})

	t.Run("unmarshal invalid JSON", func(t *testing.T) {
		data := []byte(`{"id":1,invalid json}`)
		var post models.Post
		err := unmarshalEntity(data, &post)
		assert.Error(t, err)
	})

	t.Run("unmarshal into nil", func(t *testing.T) {
		data := []byte(`{"id":1}`)
		err := unmarshalEntity(data, nil)
		assert.Error(t, err)
	})
}
