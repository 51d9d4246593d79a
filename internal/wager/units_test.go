package wager

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWei_OneEther(t *testing.T) {
	wei, ok := new(big.Int).SetString("1000000000000000000", 10)
	require.True(t, ok)

	got := FromWei(wei)
	assert.True(t, got.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "1", got.String())
}

func TestFromWei_Nil(t *testing.T) {
	assert.True(t, FromWei(nil).IsZero())
}

func TestToWei_HalfEther(t *testing.T) {
	got := ToWei(decimal.RequireFromString("0.5"))
	assert.Equal(t, "500000000000000000", got.String())
}

func TestToWei_TruncatesBelowOneWei(t *testing.T) {
	got := ToWei(decimal.RequireFromString("0.0000000000000000019"))
	assert.Equal(t, "1", got.String())
}

func TestUnitsRoundTrip(t *testing.T) {
	amounts := []string{"0", "1", "0.5", "0.000000000000000001", "12.345678901234567891", "1000000"}
	for _, a := range amounts {
		in := decimal.RequireFromString(a)
		out := FromWei(ToWei(in))
		assert.True(t, in.Equal(out), "round trip of %s gave %s", a, out)
	}
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "created", GameStatusCreated.String())
	assert.Equal(t, "unknown(9)", GameStatus(9).String())
	assert.Equal(t, "won", PlayerStatusWon.String())
	assert.Equal(t, "unknown(-1)", PlayerStatus(-1).String())
}

func TestHasTaker(t *testing.T) {
	var w Wager
	assert.False(t, w.HasTaker())
	w.Taker[19] = 1
	assert.True(t, w.HasTaker())
}
