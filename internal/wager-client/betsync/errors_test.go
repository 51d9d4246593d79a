package betsync

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"decode", fmt.Errorf("%w: unpack data: short", chain.ErrNoEventFound), KindNoEventFound},
		{"not connected", fmt.Errorf("getBetOutcome: %w", chain.ErrNotConnected), KindBootstrapFailure},
		{"no caller", ErrNoCaller, KindBootstrapFailure},
		{"revert", fmt.Errorf("payout: %w", chain.ErrReverted), KindRemoteCallFailure},
		{"network", errors.New("dial tcp: i/o timeout"), KindRemoteCallFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := classify(OpPlaceBet, tc.err)
			assert.Equal(t, tc.want, e.Kind)
			assert.Equal(t, OpPlaceBet, e.Op)
			assert.ErrorIs(t, e, tc.err)
		})
	}
}

func TestClassify_KeepsExistingError(t *testing.T) {
	orig := &Error{Kind: KindNoEventFound, Op: OpTakeBet, Cause: errors.New("x")}
	assert.Same(t, orig, classify(OpPayoutBet, fmt.Errorf("wrapped: %w", orig)))
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", &Error{Kind: KindRemoteCallFailure, Op: OpPayoutBet, Cause: errors.New("revert")})

	assert.ErrorIs(t, err, &Error{Kind: KindRemoteCallFailure})
	assert.NotErrorIs(t, err, &Error{Kind: KindNoEventFound})
	assert.Contains(t, err.Error(), "payout_bet")
}
