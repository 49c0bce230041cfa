package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	backend "github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the stage keys.
const DefaultRedisPrefix = "lightsbot:stage:"

// RedisStages stores conversation stages in Redis so several bot instances
// (or short-lived Lambda invocations) share them.
type RedisStages struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures RedisStages.
type RedisOption func(*RedisStages)

// WithTTL sets the expiration of idle conversations. Zero disables expiration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStages) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStages) {
		s.prefix = prefix
	}
}

// NewRedisStages connects to Redis at address.
func NewRedisStages(address, password string, db int, opts ...RedisOption) *RedisStages {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStagesFromClient(rdb, opts...)
}

// NewRedisStagesFromClient wraps an existing client.
func NewRedisStagesFromClient(client *backend.Client, opts ...RedisOption) *RedisStages {
	store := &RedisStages{
		client: client,
		prefix: DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStages) key(key models.ConversationKey) string {
	return s.prefix + key.String()
}

// Ping checks the connection.
func (s *RedisStages) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// GetStage returns the stage of a conversation or models.ErrStageNotFound.
func (s *RedisStages) GetStage(ctx context.Context, key models.ConversationKey) (models.Stage, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return models.StageNone, models.ErrStageNotFound
		}
		return models.StageNone, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state models.UserState
	if err = json.Unmarshal(val, &state); err != nil {
		return models.StageNone, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state.CurrentStage, nil
}

// StoreStage saves the stage of a conversation and refreshes its TTL.
func (s *RedisStages) StoreStage(ctx context.Context, key models.ConversationKey, stage models.Stage, callbackQueryData string) error {
	data, err := json.Marshal(models.UserState{
		ChatID:       key.ChatID,
		UserID:       key.UserID,
		CurrentStage: stage,
		LastCallback: callbackQueryData,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err = s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStages) Close() error {
	return s.client.Close()
}
