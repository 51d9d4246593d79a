package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/radieske/chess-bet-client/internal/wager"
)

// Decoder extrai o evento BetStatus dos logs de um receipt.
// Lê somente o array de logs do receipt, nunca uma assinatura de eventos:
// notificações push de alguns providers não são confiáveis.
type Decoder struct {
	event    abi.Event
	contract common.Address // zero aceita qualquer emissor
}

// NewDecoder cria um decoder. Com contract diferente de zero, logs de outros
// endereços são ignorados.
func NewDecoder(contract common.Address) *Decoder {
	return &Decoder{event: betABI.Events[EventBetStatus], contract: contract}
}

// Decode percorre os logs em ordem e converte o primeiro BetStatus em Wager.
func (d *Decoder) Decode(receipt *types.Receipt) (wager.Wager, error) {
	if receipt == nil || receipt.Logs == nil {
		return wager.Wager{}, ErrNoEventFound
	}
	for _, l := range receipt.Logs {
		if !d.matches(l) {
			continue
		}
		return d.decodeLog(l)
	}
	return wager.Wager{}, fmt.Errorf("%w (tx %s, %d logs)", ErrNoEventFound, receipt.TxHash.Hex(), len(receipt.Logs))
}

func (d *Decoder) matches(l *types.Log) bool {
	if l == nil || len(l.Topics) == 0 || l.Topics[0] != d.event.ID {
		return false
	}
	return d.contract == (common.Address{}) || l.Address == d.contract
}

func (d *Decoder) decodeLog(l *types.Log) (wager.Wager, error) {
	fields := make(map[string]any, len(d.event.Inputs))
	if err := d.event.Inputs.NonIndexed().UnpackIntoMap(fields, l.Data); err != nil {
		return wager.Wager{}, fmt.Errorf("%w: unpack data: %w", ErrNoEventFound, err)
	}
	var indexed abi.Arguments
	for _, arg := range d.event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(fields, indexed, l.Topics[1:]); err != nil {
			return wager.Wager{}, fmt.Errorf("%w: parse topics: %w", ErrNoEventFound, err)
		}
	}

	f := fieldReader{fields: fields}
	w := wager.Wager{
		GameStatus:       wager.GameStatus(f.integer("gameStatus")),
		Originator:       f.address("originatorAddress"),
		OriginatorGuess:  f.integer("originatorGuess"),
		OriginatorStatus: wager.PlayerStatus(f.integer("originatorStatus")),
		Taker:            f.address("takerAddress"),
		TakerGuess:       f.integer("takerGuess"),
		TakerStatus:      wager.PlayerStatus(f.integer("takerStatus")),
		BetAmount:        wager.FromWei(f.wei("betAmount")),
		ActualNumber:     f.integer("actualNumber"),
		Pot:              wager.FromWei(f.wei("pot")),
	}
	if f.err != nil {
		return wager.Wager{}, fmt.Errorf("%w: %w", ErrNoEventFound, f.err)
	}
	return w, nil
}

// fieldReader guarda o primeiro erro de conversão para não poluir decodeLog.
type fieldReader struct {
	fields map[string]any
	err    error
}

func (f *fieldReader) fail(name string, v any) {
	if f.err == nil {
		f.err = fmt.Errorf("field %s: unexpected type %T", name, v)
	}
}

func (f *fieldReader) outOfRange(name string, v any) {
	if f.err == nil {
		f.err = fmt.Errorf("field %s: value %v out of range", name, v)
	}
}

func (f *fieldReader) integer(name string) int64 {
	v := f.fields[name]
	switch n := v.(type) {
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		if n <= 1<<63-1 {
			return int64(n)
		}
		f.outOfRange(name, n)
		return 0
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case *big.Int:
		if n != nil && n.IsInt64() {
			return n.Int64()
		}
		if n != nil {
			f.outOfRange(name, n)
			return 0
		}
	}
	f.fail(name, v)
	return 0
}

func (f *fieldReader) address(name string) common.Address {
	v := f.fields[name]
	if a, ok := v.(common.Address); ok {
		return a
	}
	f.fail(name, v)
	return common.Address{}
}

func (f *fieldReader) wei(name string) *big.Int {
	v := f.fields[name]
	if n, ok := v.(*big.Int); ok && n != nil {
		return n
	}
	f.fail(name, v)
	return nil
}
