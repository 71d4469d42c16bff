// Package transport exposes the settlement engine and the earnings oracle
// over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// SettlementHandler serves the REST API.
type SettlementHandler struct {
	engine Engine
	oracle Oracle
	keeper common.Address
	logger *zap.Logger
}

type deliveryResponse struct {
	Day       uint64    `json:"day"`
	OracleDay uint64    `json:"oracle_day"`
	Round     string    `json:"round"`
	Sold      uint64    `json:"sold"`
	Amount    string    `json:"amount"`
	At        time.Time `json:"at"`
}

type roundResponse struct {
	Oracle     string    `json:"oracle"`
	Day        uint64    `json:"day"`
	Value      string    `json:"value"`
	Kind       string    `json:"kind"`
	Pools      uint32    `json:"pools"`
	Hashrate   uint64    `json:"hashrate"`
	RecordedAt time.Time `json:"recorded_at"`
}

type liquidationResponse struct {
	Distributor uint64    `json:"distributor"`
	Account     string    `json:"account"`
	Balance     string    `json:"balance"`
	Total       uint64    `json:"total"`
	At          time.Time `json:"at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewSettlementHandler returns a handler. keeper is the identity the API acts
// as for deliveries and liquidation; liquidation succeeds only when the keeper
// is the engine admin.
func NewSettlementHandler(engine Engine, oracle Oracle, keeper common.Address, logger *zap.Logger) (*SettlementHandler, error) {
	if engine == nil {
		return nil, errors.New("settlement handler engine is required")
	}
	if oracle == nil {
		return nil, errors.New("settlement handler oracle is required")
	}
	return &SettlementHandler{
		engine: engine,
		oracle: oracle,
		keeper: keeper,
		logger: logger.Named("http"),
	}, nil
}

// Register adds the routes to mux. Later registrations win on overlap, so
// literal segments are registered after the parameterised ones.
func (h *SettlementHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handle  gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/stage", h.stage},
		{http.MethodGet, "/v1/instruments/{id}", h.instrument},
		{http.MethodGet, "/v1/deliveries/{day}", h.delivery},
		{http.MethodPost, "/v1/deliver", h.deliver},
		{http.MethodPost, "/v1/liquidate", h.liquidate},
		{http.MethodGet, "/v1/oracle/rounds/{day}", h.round},
		{http.MethodGet, "/v1/oracle/rounds/last", h.lastRound},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handle); err != nil {
			return fmt.Errorf("register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return nil
}

func (h *SettlementHandler) stage(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	h.write(w, http.StatusOK, h.engine.Snapshot())
}

func (h *SettlementHandler) instrument(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	id, err := strconv.ParseUint(params["id"], 10, 64)
	if err != nil {
		h.fail(w, fmt.Errorf("instrument id %q: %w", params["id"], model.ErrInvalidInput))
		return
	}
	v, ok := h.engine.Instrument(model.InstrumentID(id))
	if !ok {
		h.write(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("instrument %d not found", id)})
		return
	}
	h.write(w, http.StatusOK, v)
}

func (h *SettlementHandler) delivery(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	day, err := strconv.ParseUint(params["day"], 10, 64)
	if err != nil {
		h.fail(w, fmt.Errorf("delivery day %q: %w", params["day"], model.ErrInvalidInput))
		return
	}
	d, ok := h.engine.Delivery(day)
	if !ok {
		h.write(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("delivery %d not found", day)})
		return
	}
	h.write(w, http.StatusOK, toDeliveryResponse(d))
}

func (h *SettlementHandler) deliver(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	d, err := h.engine.Deliver(h.keeper)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.write(w, http.StatusOK, toDeliveryResponse(d))
}

func (h *SettlementHandler) liquidate(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	rec, err := h.engine.Liquidate(h.keeper)
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := liquidationResponse{
		Distributor: rec.ID,
		Account:     rec.Account.Hex(),
		Balance:     "0",
		Total:       rec.Total,
		At:          rec.At,
	}
	if rec.Balance != nil {
		resp.Balance = rec.Balance.Dec()
	}
	h.write(w, http.StatusOK, resp)
}

func (h *SettlementHandler) round(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	day, err := strconv.ParseUint(params["day"], 10, 64)
	if err != nil {
		h.fail(w, fmt.Errorf("round day %q: %w", params["day"], model.ErrInvalidInput))
		return
	}
	r, ok := h.oracle.Round(day)
	if !ok {
		h.write(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("round %d not found", day)})
		return
	}
	h.write(w, http.StatusOK, toRoundResponse(r))
}

func (h *SettlementHandler) lastRound(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	r, ok := h.oracle.LastRound()
	if !ok {
		h.write(w, http.StatusNotFound, errorResponse{Error: "no rounds yet"})
		return
	}
	h.write(w, http.StatusOK, toRoundResponse(r))
}

func (h *SettlementHandler) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.Error(err))
	}
	h.write(w, status, errorResponse{Error: err.Error()})
}

func (h *SettlementHandler) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrStageMismatch), errors.Is(err, model.ErrAlreadyDone):
		return http.StatusConflict
	case errors.Is(err, model.ErrInsufficientCapacity), errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func toDeliveryResponse(d settlement.Delivery) deliveryResponse {
	resp := deliveryResponse{
		Day:       d.Day,
		OracleDay: d.OracleDay,
		Round:     "0",
		Sold:      d.Sold,
		Amount:    "0",
		At:        d.At,
	}
	if d.Round != nil {
		resp.Round = d.Round.Dec()
	}
	if d.Amount != nil {
		resp.Amount = d.Amount.Dec()
	}
	return resp
}

func toRoundResponse(r model.Round) roundResponse {
	resp := roundResponse{
		Oracle:     r.Oracle,
		Day:        r.Day,
		Value:      "0",
		Kind:       string(r.Kind),
		Pools:      r.Pools,
		Hashrate:   r.Hashrate,
		RecordedAt: r.RecordedAt,
	}
	if r.Value != nil {
		resp.Value = r.Value.Dec()
	}
	return resp
}
