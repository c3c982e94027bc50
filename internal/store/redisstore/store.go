// internal/store/redisstore/store.go
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

const docKey = "kardemumma:db"

// RedisStore keeps the whole document serialized under one key.
type RedisStore struct {
	client *redis.Client
	mu     sync.Mutex
}

func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load() (*models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *RedisStore) Update(fn func(db *models.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load() (*models.Database, error) {
	data, err := s.client.Get(context.Background(), docKey).Bytes()
	if err == redis.Nil {
		return models.NewDatabase(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	doc := models.NewDatabase()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

func (s *RedisStore) save(doc *models.Database) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.client.Set(context.Background(), docKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
