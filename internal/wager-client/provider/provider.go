// Package provider conecta ao nó Ethereum e assina transações com a conta configurada.
package provider

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

var ErrNoSigner = errors.New("no signer for account")

// Handle é o contexto de rede/conta. A conexão só acontece em Connect,
// para que uma falha de bootstrap vire estado de erro e não um crash.
type Handle struct {
	url     string
	key     *ecdsa.PrivateKey
	account common.Address
	log     *zap.Logger

	mu      sync.RWMutex
	client  *ethclient.Client
	chainID *big.Int
}

// New valida a chave privada (hex, com ou sem 0x). Chave vazia = nenhuma conta conectada.
func New(rpcURL, privateKeyHex string, log *zap.Logger) (*Handle, error) {
	h := &Handle{url: rpcURL, log: log}
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex != "" {
		key, err := crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			return nil, fmt.Errorf("parse account private key: %w", err)
		}
		h.key = key
		h.account = crypto.PubkeyToAddress(key.PublicKey)
	}
	return h, nil
}

// Connect disca o RPC e lê o chain id. Idempotente depois do primeiro sucesso.
func (h *Handle) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client != nil {
		return nil
	}

	client, err := ethclient.DialContext(ctx, h.url)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("fetch chain id: %w", err)
	}
	h.client, h.chainID = client, id

	h.log.Info("network", zap.String("chain_id", id.String()), zap.String("account", h.account.Hex()))
	return nil
}

// CurrentAccount retorna a conta da chave configurada; false quando não há conta.
func (h *Handle) CurrentAccount() (common.Address, bool) {
	return h.account, h.key != nil
}

func (h *Handle) Backend() (chain.Backend, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.client == nil {
		return nil, chain.ErrNotConnected
	}
	return h.client, nil
}

// TransactOpts só assina pela conta configurada.
func (h *Handle) TransactOpts(ctx context.Context, caller common.Address) (*bind.TransactOpts, error) {
	if h.key == nil || caller != h.account {
		return nil, fmt.Errorf("%w %s", ErrNoSigner, caller.Hex())
	}
	h.mu.RLock()
	chainID := h.chainID
	h.mu.RUnlock()
	if chainID == nil {
		return nil, chain.ErrNotConnected
	}

	opts, err := bind.NewKeyedTransactorWithChainID(h.key, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// Ping é usado pelo /healthz.
func (h *Handle) Ping(ctx context.Context) error {
	h.mu.RLock()
	client := h.client
	h.mu.RUnlock()
	if client == nil {
		return chain.ErrNotConnected
	}
	_, err := client.BlockNumber(ctx)
	return err
}

func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client != nil {
		h.client.Close()
		h.client = nil
	}
}
