package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Nomes dos métodos e do evento do contrato Bet.
const (
	MethodGetBetOutcome = "getBetOutcome"
	MethodCreateBet     = "createBet"
	MethodTakeBet       = "takeBet"
	MethodPayout        = "payout"

	EventBetStatus = "BetStatus"
)

const betABIJSON = `[
  {"inputs":[],"name":"getBetOutcome","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"guess","type":"uint256"}],"name":"createBet","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"guess","type":"uint256"}],"name":"takeBet","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[],"name":"payout","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"anonymous":false,"inputs":[
    {"indexed":false,"internalType":"uint8","name":"gameStatus","type":"uint8"},
    {"indexed":false,"internalType":"address","name":"originatorAddress","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"originatorGuess","type":"uint256"},
    {"indexed":false,"internalType":"uint8","name":"originatorStatus","type":"uint8"},
    {"indexed":false,"internalType":"address","name":"takerAddress","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"takerGuess","type":"uint256"},
    {"indexed":false,"internalType":"uint8","name":"takerStatus","type":"uint8"},
    {"indexed":false,"internalType":"uint256","name":"betAmount","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"actualNumber","type":"uint256"},
    {"indexed":false,"internalType":"uint256","name":"pot","type":"uint256"}
  ],"name":"BetStatus","type":"event"}
]`

var betABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(betABIJSON))
	if err != nil {
		panic(fmt.Errorf("bet abi parse: %w", err))
	}
	return parsed
}

// ABI retorna o ABI do contrato Bet.
func ABI() abi.ABI { return betABI }
