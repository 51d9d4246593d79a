package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/kafka-go"

	"github.com/radieske/chess-bet-client/internal/wager-client/betsync"
	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

// MessageWriter é o subconjunto de *kafka.Writer usado aqui.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
	Topic  string
}

func NewKafkaPublisher(w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishOperation grava o registro de auditoria da operação, com o op id como key.
func (p *KafkaPublisher) PublishOperation(ctx context.Context, s betsync.Settlement) error {
	e := Operation(s)
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal wager operation: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.OpID), Value: b, Time: e.Ts})
}

// Operation converte o Settlement no evento publicado. Só metadados e o status do jogo.
func Operation(s betsync.Settlement) events.WagerOperation {
	e := events.WagerOperation{
		OpID:       s.OpID,
		Op:         string(s.Op),
		Outcome:    events.OutcomeOK,
		Caller:     s.Caller.Hex(),
		DurationMs: s.Duration.Milliseconds(),
		GameStatus: s.State.Wager.GameStatus.String(),
		Ts:         time.Now().UTC(),
	}
	if s.TxHash != (common.Hash{}) {
		e.TxHash = s.TxHash.Hex()
	}
	if s.Err != nil {
		e.Outcome = events.OutcomeError
		e.ErrorKind = string(s.Err.Kind)
		e.Detail = s.Err.Cause.Error()
	}
	return e
}
