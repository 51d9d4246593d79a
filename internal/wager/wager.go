// Package wager define o snapshot canônico de uma aposta e a conversão de unidades
// entre o ledger (wei) e o valor exibido ao usuário (ether).
package wager

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// GameStatus é a fase geral da aposta reportada pelo contrato.
type GameStatus int

const (
	GameStatusNone GameStatus = iota
	GameStatusCreated
	GameStatusTaken
	GameStatusSettled
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusNone:
		return "none"
	case GameStatusCreated:
		return "created"
	case GameStatusTaken:
		return "taken"
	case GameStatusSettled:
		return "settled"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// PlayerStatus é o status individual de cada participante.
type PlayerStatus int

const (
	PlayerStatusNone PlayerStatus = iota
	PlayerStatusPlaced
	PlayerStatusWon
	PlayerStatusLost
	PlayerStatusTied
	PlayerStatusPaid
)

func (s PlayerStatus) String() string {
	switch s {
	case PlayerStatusNone:
		return "none"
	case PlayerStatusPlaced:
		return "placed"
	case PlayerStatusWon:
		return "won"
	case PlayerStatusLost:
		return "lost"
	case PlayerStatusTied:
		return "tied"
	case PlayerStatusPaid:
		return "paid"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Wager é sempre reconstruído inteiro a partir de um evento BetStatus decodificado.
// BetAmount e Pot já estão em ether, nunca em wei.
type Wager struct {
	GameStatus       GameStatus      `json:"gameStatus"`
	Originator       common.Address  `json:"originator"`
	OriginatorGuess  int64           `json:"originatorGuess"`
	OriginatorStatus PlayerStatus    `json:"originatorStatus"`
	Taker            common.Address  `json:"taker"`
	TakerGuess       int64           `json:"takerGuess"`
	TakerStatus      PlayerStatus    `json:"takerStatus"`
	BetAmount        decimal.Decimal `json:"betAmount"`
	ActualNumber     int64           `json:"actualNumber"`
	Pot              decimal.Decimal `json:"pot"`
}

// HasTaker indica se um adversário já entrou na aposta.
func (w Wager) HasTaker() bool {
	return w.Taker != (common.Address{})
}
