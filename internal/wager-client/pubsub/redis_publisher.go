package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/chess-bet-client/internal/wager-client/betsync"
	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

const ChannelWagerBroadcast = "wager_state_broadcast"

// Publisher é o subconjunto de *redis.Client usado aqui.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisBroadcaster publica os estados de uma sessão. O canal é compartilhado
// entre instâncias; cada snapshot leva o origin da sessão que o gerou.
type RedisBroadcaster struct {
	r       Publisher
	channel string
	origin  string
}

func NewRedisBroadcaster(r Publisher, channel, origin string) *RedisBroadcaster {
	if channel == "" {
		channel = ChannelWagerBroadcast
	}
	return &RedisBroadcaster{r: r, channel: channel, origin: origin}
}

// PublishState envia o estado resultante de uma operação.
func (b *RedisBroadcaster) PublishState(ctx context.Context, opID string, st betsync.State) error {
	payload, err := json.Marshal(Snapshot(b.origin, opID, st))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := b.r.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", b.channel, err)
	}
	return nil
}

// Snapshot achata o State no formato enviado aos clientes websocket.
func Snapshot(origin, opID string, st betsync.State) events.WagerSnapshot {
	w := st.Wager
	return events.WagerSnapshot{
		Origin:  origin,
		OpID:    opID,
		Phase:   string(st.Phase),
		Loading: st.Loading,
		Error:   st.Error,

		GameStatus:       w.GameStatus.String(),
		Originator:       w.Originator.Hex(),
		OriginatorGuess:  w.OriginatorGuess,
		OriginatorStatus: w.OriginatorStatus.String(),
		Taker:            w.Taker.Hex(),
		TakerGuess:       w.TakerGuess,
		TakerStatus:      w.TakerStatus.String(),
		BetAmount:        w.BetAmount.String(),
		ActualNumber:     w.ActualNumber,
		Pot:              w.Pot.String(),
	}
}
