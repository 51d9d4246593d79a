package betsync

import "github.com/radieske/chess-bet-client/internal/wager"

// Phase é a fase visível do controller.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Op identifica a operação que disparou a transição.
type Op string

const (
	OpInitialize Op = "initialize"
	OpPlaceBet   Op = "place_bet"
	OpTakeBet    Op = "take_bet"
	OpPayoutBet  Op = "payout_bet"
)

// State é o que a camada de apresentação enxerga. Error é nil ou a mensagem genérica.
type State struct {
	Phase   Phase       `json:"phase"`
	Wager   wager.Wager `json:"wager"`
	Loading bool        `json:"loading"`
	Error   *string     `json:"error"`
}
