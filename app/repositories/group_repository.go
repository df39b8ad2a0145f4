package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerGroupRepository implements GroupRepository using BadgerDB
type BadgerGroupRepository struct {
	db  *badger.DB
	ids *idSequence
}

// NewBadgerGroupRepository creates a new BadgerGroupRepository
func NewBadgerGroupRepository(db *badger.DB) *BadgerGroupRepository {
	return &BadgerGroupRepository{db: db, ids: newIDSequence(db, GroupSeqKey)}
}

// Create stores a new group. The slug index is checked and written in the
// same transaction, so a duplicate slug fails with ErrDuplicateSlug.
func (r *BadgerGroupRepository) Create(group *models.Group) error {
	id := 0
	return update(r.db, func(txn *badger.Txn) error {
		slugKey := indexKey(GroupSlugIndexPrefix, group.Slug)
		_, err := txn.Get(slugKey)
		if err == nil {
			return ErrDuplicateSlug
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if id == 0 {
			if id, err = r.ids.next(); err != nil {
				return err
			}
		}
		group.ID = id

		data, err := marshalEntity(group)
		if err != nil {
			return err
		}
		if err := txn.Set(entityKey(GroupKeyPrefix, id), data); err != nil {
			return err
		}
		return txn.Set(slugKey, []byte(strconv.Itoa(id)))
	})
}

// GetByID retrieves a group by ID
func (r *BadgerGroupRepository) GetByID(id int) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetBySlug retrieves a group through the slug index
func (r *BadgerGroupRepository) GetBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, indexKey(GroupSlugIndexPrefix, slug))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns all groups ordered by title, descending
func (r *BadgerGroupRepository) List() ([]*models.Group, error) {
	groups := []*models.Group{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(GroupKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var group models.Group
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &group)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal group: %w", err)
			}
			groups = append(groups, &group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Title > groups[j].Title
	})
	return groups, nil
}

// Delete removes a group, its slug index entry and every post's reference to it.
// Posts themselves are kept.
func (r *BadgerGroupRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var group models.Group
		key := entityKey(GroupKeyPrefix, id)
		if err := getEntity(txn, key, &group); err != nil {
			return err
		}

		if err := clearGroupTxn(txn, id); err != nil {
			return err
		}
		if err := txn.Delete(indexKey(GroupSlugIndexPrefix, group.Slug)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
