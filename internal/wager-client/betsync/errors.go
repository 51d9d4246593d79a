package betsync

import (
	"errors"
	"fmt"

	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
)

// GenericErrorMessage é a única mensagem mostrada ao usuário, qualquer que seja a causa.
const GenericErrorMessage = "Chess Bet Error"

// Kind classifica a causa de uma falha. Não é exposto ao usuário, só aos logs e métricas.
type Kind string

const (
	KindBootstrapFailure  Kind = "BOOTSTRAP_FAILURE"
	KindRemoteCallFailure Kind = "REMOTE_CALL_FAILURE"
	KindNoEventFound      Kind = "NO_EVENT_FOUND"
)

var (
	ErrOperationInFlight = errors.New("wager operation already in flight")
	ErrNoCaller          = errors.New("no connected account")
	ErrPanic             = errors.New("wager operation panicked")
)

// Error preserva a causa real para diagnóstico.
type Error struct {
	Kind  Kind
	Op    Op
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is compara pelo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// classify é o único ponto que decide o Kind de uma falha.
func classify(op Op, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	kind := KindRemoteCallFailure
	switch {
	case errors.Is(err, chain.ErrNoEventFound):
		kind = KindNoEventFound
	case errors.Is(err, chain.ErrNotConnected), errors.Is(err, ErrNoCaller):
		kind = KindBootstrapFailure
	}
	return &Error{Kind: kind, Op: op, Cause: err}
}
