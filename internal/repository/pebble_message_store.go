package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/spec-kit/peer-support/internal/domain"
)

var pebbleCollectionKey = []byte("messages:all")

// PebbleMessageStore keeps the encoded collection in an embedded pebble
// database under a single key.
type PebbleMessageStore struct {
	db *pebble.DB
}

// OpenPebbleMessageStore opens (or creates) the database at path.
func OpenPebbleMessageStore(path string) (*PebbleMessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleMessageStore{db: db}, nil
}

func (s *PebbleMessageStore) LoadAll(ctx context.Context) ([]domain.MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, closer, err := s.db.Get(pebbleCollectionKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return []domain.MessageRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	// v is only valid until closer.Close.
	data := make([]byte, len(v))
	copy(data, v)
	return DecodeRecords(data)
}

func (s *PebbleMessageStore) SaveAll(ctx context.Context, records []domain.MessageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	return s.db.Set(pebbleCollectionKey, data, pebble.Sync)
}

// Ping reports whether the database is open and readable.
func (s *PebbleMessageStore) Ping(context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("pebble store closed")
	}
	_, closer, err := s.db.Get(pebbleCollectionKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return closer.Close()
}

// Close releases the database.
func (s *PebbleMessageStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
