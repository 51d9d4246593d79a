package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/wager"
)

// Backend é o que o proxy precisa do nó: enviar transações e buscar receipts.
// *ethclient.Client satisfaz.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Connection é o lado do provider usado pelo proxy.
type Connection interface {
	// Backend retorna ErrNotConnected enquanto o provider não conectou.
	Backend() (Backend, error)
	// TransactOpts assina como caller.
	TransactOpts(ctx context.Context, caller common.Address) (*bind.TransactOpts, error)
}

// Proxy é o handle tipado para o contrato Bet implantado em Address.
// Cada chamada é única, sem retry, e espera a transação ser minerada.
type Proxy struct {
	Address common.Address
	conn    Connection
	log     *zap.Logger
}

func NewProxy(address common.Address, conn Connection, log *zap.Logger) *Proxy {
	return &Proxy{Address: address, conn: conn, log: log}
}

// ReadOutcome pede ao contrato que emita o BetStatus atual. Não move fundos.
func (p *Proxy) ReadOutcome(ctx context.Context, caller common.Address) (*types.Receipt, error) {
	return p.transact(ctx, caller, nil, 0, MethodGetBetOutcome)
}

// CreateWager cria a aposta com stake value (em ether).
func (p *Proxy) CreateWager(ctx context.Context, guess int64, caller common.Address, value decimal.Decimal) (*types.Receipt, error) {
	return p.transact(ctx, caller, wager.ToWei(value), 0, MethodCreateBet, big.NewInt(guess))
}

// JoinWager entra na aposta existente; value deve ser igual ao betAmount atual.
func (p *Proxy) JoinWager(ctx context.Context, guess int64, caller common.Address, value decimal.Decimal) (*types.Receipt, error) {
	return p.transact(ctx, caller, wager.ToWei(value), 0, MethodTakeBet, big.NewInt(guess))
}

// RequestPayout paga a aposta resolvida com teto fixo de gas.
func (p *Proxy) RequestPayout(ctx context.Context, caller common.Address, gasLimit uint64) (*types.Receipt, error) {
	return p.transact(ctx, caller, nil, gasLimit, MethodPayout)
}

func (p *Proxy) transact(ctx context.Context, caller common.Address, value *big.Int, gasLimit uint64, method string, args ...any) (*types.Receipt, error) {
	backend, err := p.conn.Backend()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	opts, err := p.conn.TransactOpts(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: transact opts: %w", method, err)
	}
	opts.Context = ctx
	opts.Value = value
	opts.GasLimit = gasLimit

	contract := bind.NewBoundContract(p.Address, betABI, backend, backend, backend)
	tx, err := contract.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: send: %w", method, err)
	}
	p.log.Debug("tx sent",
		zap.String("method", method),
		zap.String("tx", tx.Hash().Hex()),
		zap.String("from", caller.Hex()),
	)

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: wait mined %s: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s: tx %s: %w", method, tx.Hash().Hex(), ErrReverted)
	}
	return receipt, nil
}
