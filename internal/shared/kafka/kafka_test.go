package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, Brokers("a:9092, b:9092,"))
	assert.Empty(t, Brokers(""))
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("a:9092", "wager_operations")

	assert.Equal(t, "wager_operations", w.Topic)
	assert.Equal(t, "a:9092", w.Addr.String())
}
