package gameserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
)

const defaultHistoryLimit = 50

type commandRequest struct {
	Activity string `json:"activity"`
	Monster  string `json:"monster"`
	Item     string `json:"item"`
	Slot     string `json:"slot"`
	Quest    string `json:"quest"`
	Quantity int    `json:"quantity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyEntry struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}

// NewHTTPHandler exposes g's commands as JSON endpoints and hub as the
// websocket event stream at /events. Every successful command responds with
// the resulting snapshot.
//
// Precondition: g, hub and logger must be non-nil.
func NewHTTPHandler(g *Game, hub *Hub, logger *zap.Logger) http.Handler {
	h := &httpHandler{game: g, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /state", h.state)
	mux.HandleFunc("GET /history", h.history)
	mux.Handle("GET /events", hub)
	mux.HandleFunc("POST /activity", h.command(func(r *http.Request, req commandRequest) error {
		_, err := g.StartActivity(r.Context(), req.Activity)
		return err
	}))
	mux.HandleFunc("POST /combat", h.command(func(r *http.Request, req commandRequest) error {
		_, err := g.StartCombat(r.Context(), req.Monster)
		return err
	}))
	mux.HandleFunc("POST /cancel", h.command(func(r *http.Request, _ commandRequest) error {
		_, err := g.Cancel(r.Context())
		return err
	}))
	mux.HandleFunc("POST /eat", h.command(func(r *http.Request, req commandRequest) error {
		return g.Eat(r.Context(), req.Item)
	}))
	mux.HandleFunc("POST /equip", h.command(func(r *http.Request, req commandRequest) error {
		return g.Equip(r.Context(), req.Item)
	}))
	mux.HandleFunc("POST /unequip", h.command(func(r *http.Request, req commandRequest) error {
		return g.Unequip(r.Context(), catalog.Slot(req.Slot))
	}))
	mux.HandleFunc("POST /quest", h.command(func(r *http.Request, req commandRequest) error {
		return g.AcceptQuest(r.Context(), req.Quest)
	}))
	mux.HandleFunc("POST /sell", h.command(func(r *http.Request, req commandRequest) error {
		_, err := g.Sell(r.Context(), req.Item, req.Quantity)
		return err
	}))
	return mux
}

type httpHandler struct {
	game   *Game
	logger *zap.Logger
}

func (h *httpHandler) state(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.game.Snapshot()
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *httpHandler) history(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	logged, err := h.game.History(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]historyEntry, len(logged))
	for i, ev := range logged {
		out[i] = historyEntry{Type: ev.Type, Payload: ev.Payload, CreatedAt: ev.CreatedAt.UnixMilli()}
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *httpHandler) command(fn func(*http.Request, commandRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if r.Body != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
				return
			}
		}
		if err := fn(r, req); err != nil {
			h.fail(w, err)
			return
		}
		h.state(w, r)
	}
}

func (h *httpHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *httpHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encoding response", zap.Error(err))
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, training.ErrUnknownActivity),
		errors.Is(err, training.ErrUnknownMonster),
		errors.Is(err, ErrUnknownItem),
		errors.Is(err, ErrUnknownQuest):
		return http.StatusNotFound
	case errors.Is(err, character.ErrInvalidQuantity),
		errors.Is(err, character.ErrNotEquippable),
		errors.Is(err, character.ErrNotFood):
		return http.StatusBadRequest
	case errors.Is(err, training.ErrInsufficientResources),
		errors.Is(err, training.ErrIncapacitated),
		errors.Is(err, training.ErrLevelTooLow),
		errors.Is(err, character.ErrInsufficientItems),
		errors.Is(err, character.ErrSlotEmpty),
		errors.Is(err, character.ErrQuestActive):
		return http.StatusConflict
	case errors.Is(err, ErrNoJournal):
		return http.StatusNotImplemented
	case errors.Is(err, ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
