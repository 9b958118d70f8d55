package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/peer-support/internal/domain"
)

type redisMessageStore struct {
	client *redis.Client
	key    string
}

// NewRedisMessageStore stores the collection as one JSON value under key.
func NewRedisMessageStore(client *redis.Client, key string) MessageStore {
	return &redisMessageStore{client: client, key: key}
}

func (s *redisMessageStore) LoadAll(ctx context.Context) ([]domain.MessageRecord, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.MessageRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeRecords(data)
}

func (s *redisMessageStore) SaveAll(ctx context.Context, records []domain.MessageRecord) error {
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}
