package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisNotifier_CharacterSaved(t *testing.T) {
	pub := &fakePublisher{}
	n := NewRedisNotifier(pub, "characters:saved")

	err := n.CharacterSaved(context.Background(), 2, "Sakura Haruno")
	require.NoError(t, err)
	assert.Equal(t, "characters:saved", pub.channel)

	var event CharacterSavedEvent
	require.NoError(t, json.Unmarshal(pub.message, &event))
	assert.Equal(t, "character_saved", event.Type)
	assert.Equal(t, int64(2), event.CharacterID)
	assert.Equal(t, "Sakura Haruno", event.Name)
	assert.False(t, event.SavedAt.IsZero())
}

func TestRedisNotifier_PublishError(t *testing.T) {
	n := NewRedisNotifier(&fakePublisher{err: errors.New("connection refused")}, "characters:saved")

	err := n.CharacterSaved(context.Background(), 2, "")
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisNotifier_NilIsNoop(t *testing.T) {
	var n *RedisNotifier
	assert.NoError(t, n.CharacterSaved(context.Background(), 1, "x"))
}
