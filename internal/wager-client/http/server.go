package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/wager-client/betsync"
)

// Controller é o que a API precisa do betsync.Controller.
type Controller interface {
	State() betsync.State
	Initialize(ctx context.Context) error
	PlaceBet(ctx context.Context, guess int64, amount decimal.Decimal) error
	TakeBet(ctx context.Context, guess int64) error
	PayoutBet(ctx context.Context) error
}

type placeBetRequest struct {
	Guess  *int64           `json:"guess"`
	Amount *decimal.Decimal `json:"amount"` // ether, aceita número ou string
}

type takeBetRequest struct {
	Guess *int64 `json:"guess"`
}

// API expõe o estado da aposta e as intenções do usuário.
// As operações rodam desacopladas do cancelamento do request: uma transação
// enviada não volta atrás se o cliente HTTP desistir.
type API struct {
	Log  *zap.Logger
	Ctrl Controller
	WS   http.Handler // GET /v1/wager/ws, opcional
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/v1/wager", a.getState)         // Estado atual
	r.Post("/v1/wager/bets", a.placeBet)   // Cria a aposta
	r.Post("/v1/wager/take", a.takeBet)    // Entra na aposta existente
	r.Post("/v1/wager/payout", a.payout)   // Pede o pagamento
	r.Post("/v1/wager/refresh", a.refresh) // Relê o estado do contrato
	if a.WS != nil {
		r.Get("/v1/wager/ws", a.WS.ServeHTTP) // Estado ao vivo
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Ctrl.State())
}

func (a *API) placeBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.Guess == nil || *req.Guess < 0 || req.Amount == nil || req.Amount.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	guess, amount := *req.Guess, *req.Amount
	a.run(w, r, func(ctx context.Context) error { return a.Ctrl.PlaceBet(ctx, guess, amount) })
}

func (a *API) takeBet(w http.ResponseWriter, r *http.Request) {
	var req takeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.Guess == nil || *req.Guess < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	guess := *req.Guess
	a.run(w, r, func(ctx context.Context) error { return a.Ctrl.TakeBet(ctx, guess) })
}

func (a *API) payout(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, a.Ctrl.PayoutBet)
}

func (a *API) refresh(w http.ResponseWriter, r *http.Request) {
	a.run(w, r, a.Ctrl.Initialize)
}

// run executa a operação e responde com o estado resultante. Falhas remotas
// já estão no State (error genérico), então a resposta é 200 mesmo assim.
func (a *API) run(w http.ResponseWriter, r *http.Request, op func(context.Context) error) {
	if err := op(context.WithoutCancel(r.Context())); err != nil {
		if errors.Is(err, betsync.ErrOperationInFlight) {
			writeJSON(w, http.StatusConflict, a.Ctrl.State())
			return
		}
		a.Log.Error("wager operation", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": betsync.GenericErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, a.Ctrl.State())
}
