package redisdraft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tillfolk/pos-api/internal/domain"
)

const (
	keyPrefix  = "pos:draft:"
	defaultTTL = 24 * time.Hour
)

// Store keeps per-terminal draft snapshots in Redis so a terminal restart
// does not lose the operator's cart.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Store)

// WithTTL overrides how long an abandoned draft survives.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func (s *Store) Save(ctx context.Context, terminalID string, draft domain.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+terminalID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, terminalID string) (*domain.Draft, error) {
	payload, err := s.client.Get(ctx, keyPrefix+terminalID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *Store) Clear(ctx context.Context, terminalID string) error {
	if err := s.client.Del(ctx, keyPrefix+terminalID).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
