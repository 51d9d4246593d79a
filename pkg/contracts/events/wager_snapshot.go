package events

// Estado publicado no canal Redis e enviado aos clientes websocket.
// Origin identifica a sessão (instância do wager-client) dona do estado.
type WagerSnapshot struct {
	Origin  string  `json:"origin"`
	OpID    string  `json:"op_id"`
	Phase   string  `json:"phase"`
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`

	GameStatus       string `json:"game_status"`
	Originator       string `json:"originator"`
	OriginatorGuess  int64  `json:"originator_guess"`
	OriginatorStatus string `json:"originator_status"`
	Taker            string `json:"taker"`
	TakerGuess       int64  `json:"taker_guess"`
	TakerStatus      string `json:"taker_status"`
	BetAmount        string `json:"bet_amount"` // ether, decimal
	ActualNumber     int64  `json:"actual_number"`
	Pot              string `json:"pot"`
}
