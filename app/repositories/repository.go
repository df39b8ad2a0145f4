package repositories

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSlug     = errors.New("group with this slug already exists")
	ErrDuplicateUsername = errors.New("a user with that username already exists")
)

// Store owns the Badger database and the repositories built on it.
type Store struct {
	db *badger.DB

	Posts  *BadgerPostRepository
	Groups *BadgerGroupRepository
	Users  *BadgerUserRepository
}

// Open opens the database at path. An empty path opens an in-memory
// database, which is what the tests use.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(path).
		WithLogger(newBadgerLogger(logger)).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return NewStore(db), nil
}

// NewStore wraps an already opened database.
func NewStore(db *badger.DB) *Store {
	return &Store{
		db:     db,
		Posts:  NewBadgerPostRepository(db),
		Groups: NewBadgerGroupRepository(db),
		Users:  NewBadgerUserRepository(db),
	}
}

// releaseIDs returns the unused part of every ID lease, so the counters
// on disk hold the next free ID.
func (s *Store) releaseIDs() error {
	for _, ids := range []*idSequence{s.Posts.ids, s.Groups.ids, s.Users.ids} {
		if err := ids.release(); err != nil {
			return fmt.Errorf("release %s: %w", ids.key, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.releaseIDs(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// Backup writes a full dump of the database to w.
func (s *Store) Backup(w io.Writer) error {
	if err := s.releaseIDs(); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a dump written by Backup. It is meant for an empty store:
// keys present in both are overwritten. ID leases are dropped first and
// taken again from the restored counters on next use.
func (s *Store) Restore(r io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("restore: corrupt backup: %v", p)
		}
	}()
	if err := s.releaseIDs(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := s.db.Load(r, 16); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// badgerLogger routes Badger's internal log lines to zap. Badger is chatty
// at info level, so those go to debug.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func newBadgerLogger(logger *zap.Logger) *badgerLogger {
	return &badgerLogger{sugar: logger.Named("badger").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}
