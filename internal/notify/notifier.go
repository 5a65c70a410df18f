package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CharacterSavedEvent is published after a character is upserted
type CharacterSavedEvent struct {
	Type        string    `json:"type"`
	CharacterID int64     `json:"character_id"`
	Name        string    `json:"name,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
	Source      string    `json:"source"`
}

// Publisher is the Redis client subset used for notifications
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes save events on a Redis pub/sub channel
type RedisNotifier struct {
	client  Publisher
	channel string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedisNotifier wraps an existing Redis client
func NewRedisNotifier(client Publisher, channel string) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		timeout: 3 * time.Second,
		logger:  slog.Default(),
	}
}

// Dial connects to the Redis server at redisURL and verifies it with PING.
// Both "redis://host:port" URLs and bare "host:port" addresses are accepted.
func Dial(ctx context.Context, redisURL, password string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// CharacterSaved publishes a character_saved event. Failures are
// returned to the caller, which decides whether they matter.
func (n *RedisNotifier) CharacterSaved(ctx context.Context, id int64, name string) error {
	if n == nil || n.client == nil {
		return nil
	}

	payload, err := json.Marshal(CharacterSavedEvent{
		Type:        "character_saved",
		CharacterID: id,
		Name:        name,
		SavedAt:     time.Now().UTC(),
		Source:      "animeshow",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", n.channel, err)
	}
	n.logger.Debug("character_saved_published", "character_id", id, "channel", n.channel)
	return nil
}
