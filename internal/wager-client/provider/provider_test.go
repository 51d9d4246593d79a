package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// rpcStub responde eth_chainId (0x539 = 1337) e eth_blockNumber.
func rpcStub(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		result := "0x539"
		if req.Method == "eth_blockNumber" {
			result = "0x10"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
}

func TestNew_DerivesAccount(t *testing.T) {
	h, err := New("http://localhost:8545", "0x"+testKeyHex, zap.NewNop())
	require.NoError(t, err)

	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)

	acct, ok := h.CurrentAccount()
	assert.True(t, ok)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), acct)
}

func TestNew_NoKeyMeansNoAccount(t *testing.T) {
	h, err := New("http://localhost:8545", "", zap.NewNop())
	require.NoError(t, err)

	acct, ok := h.CurrentAccount()
	assert.False(t, ok)
	assert.Equal(t, common.Address{}, acct)
}

func TestNew_BadKey(t *testing.T) {
	_, err := New("http://localhost:8545", "zz", zap.NewNop())
	assert.Error(t, err)
}

func TestBackend_BeforeConnect(t *testing.T) {
	h, err := New("http://localhost:8545", testKeyHex, zap.NewNop())
	require.NoError(t, err)

	_, err = h.Backend()
	assert.ErrorIs(t, err, chain.ErrNotConnected)

	acct, _ := h.CurrentAccount()
	_, err = h.TransactOpts(context.Background(), acct)
	assert.ErrorIs(t, err, chain.ErrNotConnected)
}

func TestConnect_ReadsChainID(t *testing.T) {
	srv := rpcStub(t)
	defer srv.Close()

	h, err := New(srv.URL, testKeyHex, zap.NewNop())
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Connect(context.Background()))
	require.NoError(t, h.Connect(context.Background()))

	b, err := h.Backend()
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.NoError(t, h.Ping(context.Background()))

	acct, _ := h.CurrentAccount()
	opts, err := h.TransactOpts(context.Background(), acct)
	require.NoError(t, err)
	assert.Equal(t, acct, opts.From)
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	h, err := New(srv.URL, testKeyHex, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, h.Connect(context.Background()))
	_, err = h.Backend()
	assert.ErrorIs(t, err, chain.ErrNotConnected)
}

func TestTransactOpts_RejectsOtherCaller(t *testing.T) {
	srv := rpcStub(t)
	defer srv.Close()

	h, err := New(srv.URL, testKeyHex, zap.NewNop())
	require.NoError(t, err)
	defer h.Close()
	require.NoError(t, h.Connect(context.Background()))

	_, err = h.TransactOpts(context.Background(), common.Address{})
	assert.ErrorIs(t, err, ErrNoSigner)
}
