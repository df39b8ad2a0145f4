package repositories

import (
	"fmt"
	"sort"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db  *badger.DB
	ids *idSequence
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, ids: newIDSequence(db, PostSeqKey)}
}

// postRecord strips the loaded relations so only the post's own columns are stored.
func postRecord(post *models.Post) *models.Post {
	record := *post
	record.Author = nil
	record.Group = nil
	return &record
}

// Create creates a new post. The ID comes from the post sequence, so the
// write transaction reads nothing and cannot conflict.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	id, err := r.ids.next()
	if err != nil {
		return err
	}
	post.ID = id

	data, err := marshalEntity(postRecord(post))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entityKey(PostKeyPrefix, id), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves a page of posts matching filter, newest first
func (r *BadgerPostRepository) List(filter PostFilter, limit, offset int) ([]*models.Post, error) {
	posts, err := r.scan(filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].PubDate.After(posts[j].PubDate)
	})

	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end], nil
}

// Count returns the number of posts matching filter
func (r *BadgerPostRepository) Count(filter PostFilter) (int, error) {
	posts, err := r.scan(filter)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

// Update overwrites the stored post. The stored publication date always wins.
// Concurrent edits of one post do not conflict: the last write is kept.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	key := entityKey(PostKeyPrefix, post.ID)
	var existing models.Post
	if err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, key, &existing)
	}); err != nil {
		return err
	}
	post.PubDate = existing.PubDate

	data, err := marshalEntity(postRecord(post))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (r *BadgerPostRepository) scan(filter PostFilter) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if filter.Matches(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// clearGroupTxn rewrites every post of groupID with no group, inside txn.
func clearGroupTxn(txn *badger.Txn, groupID int) error {
	type pending struct {
		key  []byte
		post models.Post
	}
	var updates []pending

	it := txn.NewIterator(badger.DefaultIteratorOptions)
	prefix := []byte(PostKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var post models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			it.Close()
			return fmt.Errorf("failed to unmarshal post: %w", err)
		}
		if post.InGroup(groupID) {
			updates = append(updates, pending{key: item.KeyCopy(nil), post: post})
		}
	}
	it.Close()

	for _, u := range updates {
		u.post.GroupID = nil
		data, err := marshalEntity(&u.post)
		if err != nil {
			return err
		}
		if err := txn.Set(u.key, data); err != nil {
			return err
		}
	}
	return nil
}
