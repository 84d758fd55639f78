package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sporthub/internal/dependencies/random"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

const originLength = 12

// changeMessage is published on the change channel for every write
type changeMessage struct {
	storage.Change
	Origin string `json:"origin"`
}

// Storage is a Redis-backed implementation of the store interface. Every
// instance is its own browsing context: it publishes its writes and only
// delivers changes published by other instances.
type Storage struct {
	client *redis.Client
	cfg    Config
	origin string
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, rnd random.Random, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg, rnd, logger), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, rnd random.Random, logger *slog.Logger) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		origin: rnd.String(originLength, random.OriginAlphabet),
		logger: logger,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.valueKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	msg, err := s.encodeChange(storage.Change{Key: key})
	if err != nil {
		return err
	}

	// Write and announce in one round trip
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.valueKey(key), value, 0)
	pipe.Publish(ctx, s.changesChannel(), msg)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	removed, err := s.client.Del(ctx, s.valueKey(key)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}

	msg, err := s.encodeChange(storage.Change{Key: key, Removed: true})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.changesChannel(), msg).Err()
}

func (s *Storage) Subscribe(ctx context.Context) (<-chan storage.Change, error) {
	pubsub := s.client.Subscribe(ctx, s.changesChannel())

	// Wait for the subscription to be confirmed so no change published after
	// Subscribe returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to changes: %w", err)
	}

	out := make(chan storage.Change)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var change changeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					s.logger.Warn("ignoring malformed change message",
						slog.String("payload", msg.Payload),
						slog.Any("error", err))
					continue
				}
				if change.Origin == s.origin {
					continue
				}
				select {
				case out <- change.Change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *Storage) encodeChange(change storage.Change) (string, error) {
	data, err := json.Marshal(changeMessage{Change: change, Origin: s.origin})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
