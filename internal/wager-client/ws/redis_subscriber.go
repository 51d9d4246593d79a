package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

// Sink recebe os snapshots aceitos. *Hub implementa.
type Sink interface {
	Broadcast(snap events.WagerSnapshot)
}

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa ao sink só os estados da própria sessão (origin). O canal é
// compartilhado entre instâncias, cada uma com sua conta e seu Controller.
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel, origin string, sink Sink) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg == nil {
					continue
				}
				deliver(log, origin, msg.Payload, sink)
			}
		}
	}()
}

// deliver decodifica o payload e descarta estados de outras sessões.
func deliver(log *zap.Logger, origin, payload string, sink Sink) bool {
	var snap events.WagerSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		log.Warn("ws subscriber unmarshal error", zap.Error(err))
		return false
	}
	if snap.Origin != origin {
		log.Debug("ws subscriber skipped foreign state", zap.String("origin", snap.Origin), zap.String("op_id", snap.OpID))
		return false
	}
	sink.Broadcast(snap)
	return true
}
