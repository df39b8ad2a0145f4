package repositories

import (
	"errors"
	"strconv"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the stored form of a user. The model hides the password
// hash from JSON views, so it is carried explicitly here.
type userRecord struct {
	*models.User
	PasswordHash []byte `json:"password_hash"`
}

func (rec *userRecord) toModel() *models.User {
	user := rec.User
	user.PasswordHash = rec.PasswordHash
	return user
}

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db  *badger.DB
	ids *idSequence
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db, ids: newIDSequence(db, UserSeqKey)}
}

// Create stores a new user, failing with ErrDuplicateUsername if the name is taken
func (r *BadgerUserRepository) Create(user *models.User) error {
	id := 0
	return update(r.db, func(txn *badger.Txn) error {
		nameKey := indexKey(UserNameIndexPrefix, user.Username)
		_, err := txn.Get(nameKey)
		if err == nil {
			return ErrDuplicateUsername
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if id == 0 {
			if id, err = r.ids.next(); err != nil {
				return err
			}
		}
		user.ID = id

		data, err := marshalEntity(&userRecord{User: user, PasswordHash: user.PasswordHash})
		if err != nil {
			return err
		}
		if err := txn.Set(entityKey(UserKeyPrefix, id), data); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(strconv.Itoa(id)))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	rec := &userRecord{User: &models.User{}}
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// GetByUsername retrieves a user through the username index
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	rec := &userRecord{User: &models.User{}}
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, indexKey(UserNameIndexPrefix, username))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, id), rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}
