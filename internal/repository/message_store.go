package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spec-kit/peer-support/internal/domain"
)

// MessageStore persists the whole message collection. LoadAll returns the
// records newest first; SaveAll replaces the collection in one step.
type MessageStore interface {
	LoadAll(ctx context.Context) ([]domain.MessageRecord, error)
	SaveAll(ctx context.Context, records []domain.MessageRecord) error
}

// EncodeRecords serializes a collection. Nil slices inside records are
// written as [] so the shape survives a round trip unchanged.
func EncodeRecords(records []domain.MessageRecord) ([]byte, error) {
	out := make([]domain.MessageRecord, len(records))
	for i := range records {
		out[i] = records[i]
		out[i].Normalize()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

// DecodeRecords parses a collection; empty input is an empty collection.
func DecodeRecords(data []byte) ([]domain.MessageRecord, error) {
	records := []domain.MessageRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []domain.MessageRecord{}
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// MemoryStore keeps the encoded collection in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]domain.MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()
	return DecodeRecords(data)
}

func (s *MemoryStore) SaveAll(ctx context.Context, records []domain.MessageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
