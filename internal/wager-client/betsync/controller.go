// Package betsync mantém o estado visível da aposta sincronizado com o contrato.
//
// Toda operação segue o mesmo caminho: entra em loading, chama o contrato, decodifica
// o evento BetStatus do receipt e troca o Wager inteiro. Qualquer falha passa por
// classify e vira a mesma mensagem genérica, preservando o último Wager válido.
package betsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/wager"
	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

// DefaultPayoutGasLimit é o teto de gas do payout.
const DefaultPayoutGasLimit uint64 = 300000

// Provider é o contexto de rede/conta.
type Provider interface {
	Connect(ctx context.Context) error
	CurrentAccount() (common.Address, bool)
}

// Proxy são as quatro chamadas remotas do contrato.
type Proxy interface {
	ReadOutcome(ctx context.Context, caller common.Address) (*types.Receipt, error)
	CreateWager(ctx context.Context, guess int64, caller common.Address, value decimal.Decimal) (*types.Receipt, error)
	JoinWager(ctx context.Context, guess int64, caller common.Address, value decimal.Decimal) (*types.Receipt, error)
	RequestPayout(ctx context.Context, caller common.Address, gasLimit uint64) (*types.Receipt, error)
}

type Decoder interface {
	Decode(receipt *types.Receipt) (wager.Wager, error)
}

// Settlement descreve uma operação concluída. Err é nil em caso de sucesso.
type Settlement struct {
	OpID     string
	Op       Op
	Caller   common.Address
	TxHash   common.Hash
	Err      *Error
	Duration time.Duration
	State    State
}

type Options struct {
	PayoutGasLimit uint64
	// StrictCaller falha com BootstrapFailure quando não há conta conectada.
	// Desligado, a chamada segue com o endereço zero.
	StrictCaller bool

	OnStart   func(Op)         // métricas
	OnSettled func(Settlement) // métricas, auditoria, broadcast
}

// Controller é o dono único do State da sessão.
type Controller struct {
	log      *zap.Logger
	provider Provider
	proxy    Proxy
	decoder  Decoder
	opts     Options

	mu       sync.RWMutex
	state    State
	inFlight bool
}

func New(log *zap.Logger, provider Provider, proxy Proxy, decoder Decoder, opts Options) *Controller {
	if opts.PayoutGasLimit == 0 {
		opts.PayoutGasLimit = DefaultPayoutGasLimit
	}
	return &Controller{
		log:      log,
		provider: provider,
		proxy:    proxy,
		decoder:  decoder,
		opts:     opts,
		state:    State{Phase: PhaseIdle, Loading: true},
	}
}

// State retorna uma cópia do estado atual.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Busy indica se há operação em andamento.
func (c *Controller) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

// Initialize conecta o provider e lê o BetStatus atual. Pode ser repetido como refresh.
func (c *Controller) Initialize(ctx context.Context) error {
	return c.run(ctx, OpInitialize, func(ctx context.Context, caller common.Address, _ wager.Wager) (*types.Receipt, error) {
		return c.proxy.ReadOutcome(ctx, caller)
	})
}

// PlaceBet cria a aposta com palpite guess e stake amount (em ether).
func (c *Controller) PlaceBet(ctx context.Context, guess int64, amount decimal.Decimal) error {
	return c.run(ctx, OpPlaceBet, func(ctx context.Context, caller common.Address, _ wager.Wager) (*types.Receipt, error) {
		return c.proxy.CreateWager(ctx, guess, caller, amount)
	})
}

// TakeBet entra na aposta cobrindo o betAmount visível no momento da chamada.
func (c *Controller) TakeBet(ctx context.Context, guess int64) error {
	return c.run(ctx, OpTakeBet, func(ctx context.Context, caller common.Address, current wager.Wager) (*types.Receipt, error) {
		return c.proxy.JoinWager(ctx, guess, caller, current.BetAmount)
	})
}

// PayoutBet pede o pagamento da aposta resolvida.
func (c *Controller) PayoutBet(ctx context.Context) error {
	return c.run(ctx, OpPayoutBet, func(ctx context.Context, caller common.Address, _ wager.Wager) (*types.Receipt, error) {
		return c.proxy.RequestPayout(ctx, caller, c.opts.PayoutGasLimit)
	})
}

type remoteCall func(ctx context.Context, caller common.Address, current wager.Wager) (*types.Receipt, error)

// run só retorna erro quando a operação nem começou (ErrOperationInFlight).
// Falhas da operação ficam no State.
func (c *Controller) run(ctx context.Context, op Op, call remoteCall) error {
	current, err := c.begin(op)
	if err != nil {
		c.log.Warn("wager operation rejected", zap.String("op", string(op)), zap.Error(err))
		return err
	}
	if c.opts.OnStart != nil {
		c.opts.OnStart(op)
	}

	s := Settlement{OpID: uuid.NewString(), Op: op}
	start := time.Now()

	caller, receipt, w, err := c.execute(ctx, op, current, call)
	s.Caller = caller
	s.Duration = time.Since(start)
	if receipt != nil {
		s.TxHash = receipt.TxHash
	}

	if err != nil {
		s.Err = classify(op, err)
		s.State = c.fail(s)
	} else {
		s.State = c.succeed(s, w)
	}

	if c.opts.OnSettled != nil {
		c.opts.OnSettled(s)
	}
	return nil
}

func (c *Controller) begin(op Op) (wager.Wager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return wager.Wager{}, ErrOperationInFlight
	}
	c.inFlight = true
	c.state.Phase = PhaseLoading
	c.state.Loading = true
	return c.state.Wager, nil
}

// execute converte panic do proxy/decoder em erro, para que o fluxo normal
// de fail limpe o in-flight.
func (c *Controller) execute(ctx context.Context, op Op, current wager.Wager, call remoteCall) (caller common.Address, receipt *types.Receipt, w wager.Wager, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("wager operation panicked", zap.String("op", string(op)), zap.Any("panic", r), zap.Stack("stack"))
			w, err = wager.Wager{}, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if op == OpInitialize {
		if err := c.provider.Connect(ctx); err != nil {
			return common.Address{}, nil, wager.Wager{}, fmt.Errorf("%w: %w", chain.ErrNotConnected, err)
		}
	}

	caller, ok := c.provider.CurrentAccount()
	if !ok && c.opts.StrictCaller {
		return common.Address{}, nil, wager.Wager{}, ErrNoCaller
	}

	receipt, err = call(ctx, caller, current)
	if err != nil {
		return caller, receipt, wager.Wager{}, err
	}
	w, err = c.decoder.Decode(receipt)
	if err != nil {
		return caller, receipt, wager.Wager{}, err
	}
	return caller, receipt, w, nil
}

func (c *Controller) succeed(s Settlement, w wager.Wager) State {
	c.mu.Lock()
	c.state = State{Phase: PhaseReady, Wager: w, Loading: false, Error: nil}
	c.inFlight = false
	st := c.state
	c.mu.Unlock()

	c.log.Info("wager synced",
		zap.String("op", string(s.Op)),
		zap.String("op_id", s.OpID),
		zap.String("tx", s.TxHash.Hex()),
		zap.String("game_status", w.GameStatus.String()),
		zap.Duration("took", s.Duration),
	)
	return st
}

// fail preserva o Wager anterior.
func (c *Controller) fail(s Settlement) State {
	msg := GenericErrorMessage
	c.mu.Lock()
	c.state.Phase = PhaseFailed
	c.state.Loading = false
	c.state.Error = &msg
	c.inFlight = false
	st := c.state
	c.mu.Unlock()

	c.log.Error("wager operation failed",
		zap.String("op", string(s.Op)),
		zap.String("op_id", s.OpID),
		zap.String("kind", string(s.Err.Kind)),
		zap.String("caller", s.Caller.Hex()),
		zap.Error(s.Err.Cause),
	)
	return st
}
