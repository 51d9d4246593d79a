package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/chess-bet-client/internal/wager"
	"github.com/radieske/chess-bet-client/internal/wager-client/betsync"
	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestPublishOperation_Success(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaPublisher(w, "wager_operations")

	s := betsync.Settlement{
		OpID:     "op-1",
		Op:       betsync.OpPlaceBet,
		Caller:   common.HexToAddress("0xa1"),
		TxHash:   common.HexToHash("0xbeef"),
		Duration: 1500 * time.Millisecond,
		State:    betsync.State{Phase: betsync.PhaseReady, Wager: wager.Wager{GameStatus: wager.GameStatusCreated}},
	}
	require.NoError(t, p.PublishOperation(context.Background(), s))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "op-1", string(w.msgs[0].Key))

	var got events.WagerOperation
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "place_bet", got.Op)
	assert.Equal(t, events.OutcomeOK, got.Outcome)
	assert.Equal(t, "created", got.GameStatus)
	assert.Equal(t, int64(1500), got.DurationMs)
	assert.Equal(t, common.HexToHash("0xbeef").Hex(), got.TxHash)
	assert.Empty(t, got.ErrorKind)
}

func TestOperation_Failure(t *testing.T) {
	s := betsync.Settlement{
		OpID: "op-2",
		Op:   betsync.OpPayoutBet,
		Err:  &betsync.Error{Kind: betsync.KindRemoteCallFailure, Op: betsync.OpPayoutBet, Cause: errors.New("execution reverted")},
	}
	e := Operation(s)

	assert.Equal(t, events.OutcomeError, e.Outcome)
	assert.Equal(t, "REMOTE_CALL_FAILURE", e.ErrorKind)
	assert.Equal(t, "execution reverted", e.Detail)
	assert.Empty(t, e.TxHash)
}

func TestPublishOperation_WriterError(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w, "wager_operations")

	err := p.PublishOperation(context.Background(), betsync.Settlement{OpID: "op-3", Op: betsync.OpInitialize})
	assert.EqualError(t, err, "broker down")
}
