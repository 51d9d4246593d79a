package ws

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

type memSink struct {
	mu    sync.Mutex
	snaps []events.WagerSnapshot
}

func (s *memSink) Broadcast(snap events.WagerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
}

func (s *memSink) all() []events.WagerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.WagerSnapshot(nil), s.snaps...)
}

func payload(t *testing.T, snap events.WagerSnapshot) string {
	t.Helper()
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	return string(b)
}

func TestDeliver_OnlyOwnSession(t *testing.T) {
	sink := &memSink{}
	log := zap.NewNop()

	assert.True(t, deliver(log, "inst-a", payload(t, events.WagerSnapshot{Origin: "inst-a", OpID: "op-1", Phase: "ready"}), sink))
	assert.False(t, deliver(log, "inst-a", payload(t, events.WagerSnapshot{Origin: "inst-b", OpID: "op-2", Phase: "loading", Loading: true}), sink))
	assert.False(t, deliver(log, "inst-a", payload(t, events.WagerSnapshot{OpID: "op-3"}), sink))
	assert.False(t, deliver(log, "inst-a", "{", sink))

	got := sink.all()
	require.Len(t, got, 1)
	assert.Equal(t, "op-1", got[0].OpID)
	assert.False(t, got[0].Loading)
}

// Roda só com um Redis disponível: WS_TEST_REDIS_ADDR=localhost:6379
func TestStartRedisSubscriber_RoundTrip(t *testing.T) {
	addr := os.Getenv("WS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WS_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	channel := "wager_state_test_" + time.Now().Format("150405.000000")
	sink := &memSink{}
	StartRedisSubscriber(ctx, zap.NewNop(), rdb, channel, "inst-a", sink)

	foreign := payload(t, events.WagerSnapshot{Origin: "inst-b", OpID: "foreign"})
	own := payload(t, events.WagerSnapshot{Origin: "inst-a", OpID: "own"})

	// a inscrição é assíncrona: republica até o primeiro estado chegar
	require.Eventually(t, func() bool {
		_ = rdb.Publish(ctx, channel, foreign).Err()
		_ = rdb.Publish(ctx, channel, own).Err()
		return len(sink.all()) > 0
	}, 5*time.Second, 50*time.Millisecond)

	for _, s := range sink.all() {
		assert.Equal(t, "own", s.OpID)
	}
}
