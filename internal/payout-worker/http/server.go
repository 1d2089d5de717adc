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

	"github.com/Linck01/honorbet-rest/internal/payout-worker/dto"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/repo"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/settlement"
)

// Payouts é a parte do worker usada pela API
type Payouts interface {
	Enqueue(betID string)
	Preview(ctx context.Context, betID string) (*settlement.Bet, *settlement.Settlement, error)
}

type QueueView interface {
	Snapshot() []string
	Contains(betID string) bool
}

// TipRepo registra palpites (sem validação de regras de aposta)
type TipRepo interface {
	GetBet(ctx context.Context, betID string) (*settlement.Bet, error)
	FindOrCreateMember(ctx context.Context, gameID, userID string, startCurrency decimal.Decimal) (repo.Member, error)
	AddTip(ctx context.Context, bet *settlement.Bet, in repo.NewTip) (*settlement.Tip, error)
}

// API expõe os endpoints administrativos do payout-worker
type API struct {
	Log     *zap.Logger
	Payouts Payouts
	Queue   QueueView
	Tips    TipRepo
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/v1/payouts/{betId}", a.enqueue)     // Coloca a aposta na fila
	r.Get("/v1/payouts/queue", a.queue)          // Snapshot da fila
	r.Get("/v1/bets/{id}/settlement", a.preview) // Prévia da liquidação, sem escrita
	r.Post("/v1/bets/{id}/tips", a.placeTip)     // Registra/complementa um palpite
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *API) enqueue(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betId")
	if a.Queue.Contains(betID) {
		writeJSON(w, http.StatusOK, dto.EnqueueResponse{BetID: betID, Status: "ALREADY_QUEUED"})
		return
	}
	a.Payouts.Enqueue(betID)
	a.Log.Info("bet queued for payout", zap.String("betId", betID), zap.String("source", "http"))
	writeJSON(w, http.StatusAccepted, dto.EnqueueResponse{BetID: betID, Status: "QUEUED"})
}

func (a *API) queue(w http.ResponseWriter, r *http.Request) {
	ids := a.Queue.Snapshot()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, dto.QueueResponse{Size: len(ids), BetIDs: ids})
}

func (a *API) preview(w http.ResponseWriter, r *http.Request) {
	bet, s, err := a.Payouts.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewSettlementResponse(bet, s))
}

func (a *API) placeTip(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || !settlement.ValidStake(req.Currency) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	bet, err := a.Tips.GetBet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	start := decimal.Zero
	if req.StartCurrency.Valid {
		start = req.StartCurrency.Decimal
	}
	if _, err := a.Tips.FindOrCreateMember(r.Context(), bet.GameID, req.UserID, start); err != nil {
		a.fail(w, err)
		return
	}

	in := repo.NewTip{UserID: req.UserID, Currency: req.Currency, AnswerID: req.AnswerID}
	if req.AnswerDecimal != nil {
		in.AnswerDecimal = decimal.NewNullDecimal(*req.AnswerDecimal)
	}
	tip, err := a.Tips.AddTip(r.Context(), bet, in)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewTipResponse(tip))
}

// fail traduz erros de domínio em status HTTP
func (a *API) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, settlement.ErrMalformedTip),
		errors.Is(err, settlement.ErrUnknownOutcome),
		errors.Is(err, settlement.ErrUnbalanced),
		errors.Is(err, settlement.ErrStakePrecision),
		errors.Is(err, repo.ErrNoInterval):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		a.Log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
