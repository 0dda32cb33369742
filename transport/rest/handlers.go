package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/usecase"
)

const defaultRecentLimit = 20

type resultRepo interface {
	GetByID(ctx context.Context, id string) (*entity.MatchResult, error)
	GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type snapshotter interface {
	Snapshot(ctx context.Context) (usecase.Snapshot, error)
}

type handlers struct {
	logger  *slog.Logger
	results resultRepo
	hub     snapshotter
}

// NewHandlers builds the HTTP API. results may be nil when result storage is disabled.
func NewHandlers(logger *slog.Logger, results resultRepo, hub snapshotter) http.Handler {
	that := &handlers{
		logger:  logger.With("component", "rest"),
		results: results,
		hub:     hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /healthz", that.healthz)
	mux.HandleFunc("GET /players/{id}/stats", that.playerStats)
	mux.HandleFunc("GET /matches/recent", that.recentMatches)
	mux.HandleFunc("GET /matches/{id}", that.matchByID)

	return mux
}

func (that *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.hub.Snapshot(r.Context())
	if err != nil {
		that.logger.Error("failed to get snapshot", "error", err)
		that.writeError(w, http.StatusServiceUnavailable, "game server is not running")
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) playerStats(w http.ResponseWriter, r *http.Request) {
	if that.results == nil {
		that.writeError(w, http.StatusServiceUnavailable, "result storage is disabled")
		return
	}

	stats, err := that.results.GetStats(r.Context(), r.PathValue("id"))
	if errors.Is(err, apperror.ErrNotFound) {
		that.writeError(w, http.StatusNotFound, "player has no recorded matches")
		return
	}

	if err != nil {
		that.logger.Error("failed to get player stats", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to get player stats")
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) matchByID(w http.ResponseWriter, r *http.Request) {
	if that.results == nil {
		that.writeError(w, http.StatusServiceUnavailable, "result storage is disabled")
		return
	}

	result, err := that.results.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, apperror.ErrNotFound) {
		that.writeError(w, http.StatusNotFound, "match not found")
		return
	}

	if err != nil {
		that.logger.Error("failed to get match", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to get match")
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *handlers) recentMatches(w http.ResponseWriter, r *http.Request) {
	if that.results == nil {
		that.writeError(w, http.StatusServiceUnavailable, "result storage is disabled")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			that.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	matches, err := that.results.Recent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to get recent matches", "error", err)
		that.writeError(w, http.StatusInternalServerError, "failed to get recent matches")
		return
	}

	that.writeJSON(w, http.StatusOK, matches)
}

// writeJSON commits the status before encoding; an encode failure can only be logged.
func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "status", status, "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, map[string]string{"error": message})
}
