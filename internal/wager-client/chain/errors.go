package chain

import "errors"

var (
	ErrNoEventFound = errors.New("no BetStatus event in transaction logs")
	ErrReverted     = errors.New("transaction reverted")
	ErrNotConnected = errors.New("provider not connected")
)
