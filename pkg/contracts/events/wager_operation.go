package events

import "time"

// Evento publicado no tópico "wager_operations" pelo wager-client a cada operação concluída.
type WagerOperation struct {
	OpID       string    `json:"op_id"`
	Op         string    `json:"op"`      // "initialize" | "place_bet" | "take_bet" | "payout_bet"
	Outcome    string    `json:"outcome"` // "ok" | "error"
	ErrorKind  string    `json:"error_kind,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Caller     string    `json:"caller"`
	TxHash     string    `json:"tx_hash,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	GameStatus string    `json:"game_status"`
	Ts         time.Time `json:"ts"`
}

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
