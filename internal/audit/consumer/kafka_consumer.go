package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

// MessageReader é o subconjunto de *kafka.Reader usado pelo Processor.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Store interface {
	InsertOperation(ctx context.Context, e events.WagerOperation) (bool, error)
}

var validOps = map[string]bool{
	"initialize": true,
	"place_bet":  true,
	"take_bet":   true,
	"payout_bet": true,
}

// Processor consome wager_operations do Kafka e grava no journal.
// Mensagens inválidas ou que esgotam as tentativas vão para a DLQ.
// O offset só é commitado depois que a mensagem foi gravada ou enviada à DLQ.
type Processor struct {
	Log    *zap.Logger
	Reader MessageReader
	Store  Store
	DLQ    MessageWriter // opcional

	Retries    int           // tentativas extras de gravação
	RetryDelay time.Duration // multiplicado pela tentativa

	OnConsumed  func()       // métricas (counter++)
	OnPersisted func()       // métricas
	OnDuplicate func()       // métricas
	OnDLQ       func()       // métricas
	OnError     func(string) // métricas por fase
}

// Run inicia o loop principal de consumo. Retorna só quando ctx termina.
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka fetch failed", zap.Error(err))
			p.fail("read")
			sleep(ctx, 500*time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		if err := p.Handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// sem commit: a mensagem volta no próximo rebalance/restart
			p.Log.Error("message not handled", zap.Int64("offset", m.Offset), zap.Error(err))
			continue
		}

		if err := p.Reader.CommitMessages(ctx, m); err != nil {
			p.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
			p.fail("commit")
		}
	}
}

// Handle processa uma mensagem. nil significa que ela pode ser commitada.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) error {
	ev, err := decode(m.Value)
	if err != nil {
		p.Log.Warn("invalid message", zap.Int64("offset", m.Offset), zap.Error(err))
		p.fail("decode")
		return p.toDLQ(ctx, m)
	}

	var inserted bool
	for attempt := 0; ; attempt++ {
		inserted, err = p.Store.InsertOperation(ctx, ev)
		if err == nil {
			break
		}
		p.Log.Warn("db insert failed", zap.String("op_id", ev.OpID), zap.Int("attempt", attempt+1), zap.Error(err))
		p.fail("db_insert")
		if attempt >= p.Retries || ctx.Err() != nil {
			return p.toDLQ(ctx, m)
		}
		sleep(ctx, p.RetryDelay*time.Duration(attempt+1))
	}

	if !inserted {
		p.Log.Debug("duplicate operation", zap.String("op_id", ev.OpID))
		if p.OnDuplicate != nil {
			p.OnDuplicate()
		}
		return nil
	}
	if p.OnPersisted != nil {
		p.OnPersisted()
	}
	return nil
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) error {
	if p.DLQ == nil {
		return nil // descartada
	}
	if err := p.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Headers: m.Headers}); err != nil {
		p.fail("dlq")
		return fmt.Errorf("write dlq: %w", err)
	}
	if p.OnDLQ != nil {
		p.OnDLQ()
	}
	return nil
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func decode(b []byte) (events.WagerOperation, error) {
	var ev events.WagerOperation
	if err := json.Unmarshal(b, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	switch {
	case ev.OpID == "":
		return ev, errors.New("missing op_id")
	case !validOps[ev.Op]:
		return ev, fmt.Errorf("unknown op %q", ev.Op)
	case ev.Outcome != events.OutcomeOK && ev.Outcome != events.OutcomeError:
		return ev, fmt.Errorf("unknown outcome %q", ev.Outcome)
	}
	if ev.Ts.IsZero() {
		ev.Ts = time.Now().UTC()
	}
	return ev, nil
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
