// Package chaintest monta receipts com logs BetStatus reais (ABI-encoded) para testes.
package chaintest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

// BetStatus são os campos brutos do evento, valores monetários em wei.
type BetStatus struct {
	GameStatus       uint8
	Originator       common.Address
	OriginatorGuess  int64
	OriginatorStatus uint8
	Taker            common.Address
	TakerGuess       int64
	TakerStatus      uint8
	BetAmount        *big.Int
	ActualNumber     int64
	Pot              *big.Int

	// RawOriginatorGuess, se não nil, substitui OriginatorGuess (valores acima de int64).
	RawOriginatorGuess *big.Int
}

// Log codifica ev como um log BetStatus emitido por contract. Entra em pânico se o ABI não aceitar os valores.
func Log(contract common.Address, ev BetStatus) *types.Log {
	event := chain.ABI().Events[chain.EventBetStatus]
	data, err := event.Inputs.NonIndexed().Pack(
		ev.GameStatus,
		ev.Originator,
		guess(ev.RawOriginatorGuess, ev.OriginatorGuess),
		ev.OriginatorStatus,
		ev.Taker,
		big.NewInt(ev.TakerGuess),
		ev.TakerStatus,
		orZero(ev.BetAmount),
		big.NewInt(ev.ActualNumber),
		orZero(ev.Pot),
	)
	if err != nil {
		panic(err)
	}
	return &types.Log{
		Address: contract,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	}
}

// UnrelatedLog simula um Transfer(address,address,uint256) qualquer.
func UnrelatedLog(contract common.Address) *types.Log {
	return &types.Log{
		Address: contract,
		Topics:  []common.Hash{crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))},
		Data:    common.LeftPadBytes(big.NewInt(42).Bytes(), 32),
	}
}

// Receipt monta um receipt minerado com sucesso contendo logs.
func Receipt(logs ...*types.Log) *types.Receipt {
	if logs == nil {
		logs = []*types.Log{}
	}
	return &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: crypto.Keccak256Hash([]byte("chaintest"), big.NewInt(int64(len(logs))).Bytes()),
		Logs:   logs,
	}
}

// Wei converte uma string decimal de wei. Entra em pânico se inválida.
func Wei(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("chaintest: bad wei " + s)
	}
	return n
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

func guess(raw *big.Int, n int64) *big.Int {
	if raw != nil {
		return raw
	}
	return big.NewInt(n)
}
