package usecase

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/tictactoe"
)

type matchReporter interface {
	MatchStarted(started *entity.MatchStarted)
	MatchConcluded(result *entity.MatchResult)
}

// GameSettings shape every new session.
type GameSettings struct {
	BoardSize int
	WinLength int

	// CoalesceUpdates sends one update_board carrying the next player after a non-terminal
	// move instead of two (one with the mover, one with the next player).
	CoalesceUpdates bool
}

// Snapshot is a point-in-time view of the coordinator.
type Snapshot struct {
	Waiting  int `json:"waiting"`
	Sessions int `json:"sessions"`
}

// GameManager owns the queue, the registry and every live session. It is not safe for
// concurrent use: all calls must come from a single event loop.
type GameManager struct {
	logger   *slog.Logger
	settings GameSettings
	reporter matchReporter

	queue    *Queue
	registry *Registry
}

func NewGameManager(logger *slog.Logger, settings GameSettings, reporter matchReporter) *GameManager {
	manager := &GameManager{
		logger:   logger.With("component", "game_manager"),
		settings: settings,
		reporter: reporter,
		registry: NewRegistry(),
	}

	manager.queue = NewQueue(manager.createMatch)

	return manager
}

// Dispatch routes a decoded request. The returned error has already been reported to the
// client when the client should know about it; callers only log it.
func (that *GameManager) Dispatch(conn Connection, req *Request) error {
	switch req.Type {
	case RequestSearchGame:
		return that.SearchGame(conn, req.PlayerID)
	case RequestMakeMove:
		return that.MakeMove(conn, req.X, req.Y)
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownRequest, req.Type)
	}
}

// SearchGame puts the connection in the matchmaking queue or pairs it with a waiting player.
func (that *GameManager) SearchGame(conn Connection, playerID string) error {
	log := that.logger.With("method", "SearchGame", "conn", conn.ID(), "player", playerID)

	var err error

	switch {
	case playerID == "":
		err = apperror.ErrMissingPlayerID
	case that.queue.Contains(conn.ID()):
		err = apperror.ErrAlreadyQueued
	default:
		if _, inGame := that.registry.Get(conn.ID()); inGame {
			err = apperror.ErrAlreadyInGame
		}
	}

	if err != nil {
		that.reject(conn, err)
		return fmt.Errorf("search rejected: %w", err)
	}

	match := that.queue.Join(conn, playerID)
	if match == nil {
		log.Debug("player queued", "waiting", that.queue.Len())
		return nil
	}

	that.registry.Add(match)

	if err = match.Broadcast(newStartGame(match.Session.PlayerIDs())); err != nil {
		log.Warn("failed to notify game start", "error", err)
	}

	log.Info("game started", "session", match.Session.ID, "players", match.Session.PlayerIDs())

	if that.reporter != nil {
		that.reporter.MatchStarted(&entity.MatchStarted{
			ID:        match.Session.ID,
			Players:   match.Session.PlayerIDs(),
			BoardSize: match.Session.Board.Size(),
			StartedAt: match.Session.StartedAt,
		})
	}

	return nil
}

// MakeMove applies a move for the connection's session. Rejected moves change nothing and are
// reported to the requester alone.
func (that *GameManager) MakeMove(conn Connection, x, y *int) error {
	log := that.logger.With("method", "MakeMove", "conn", conn.ID())

	match, ok := that.registry.Get(conn.ID())
	if !ok {
		that.reject(conn, apperror.ErrNoActiveGame)
		return apperror.ErrNoActiveGame
	}

	if x == nil || y == nil {
		that.reject(conn, apperror.ErrMissingCoordinates)
		return apperror.ErrMissingCoordinates
	}

	session := match.Session

	turn, err := tictactoe.MakeTurn(session, conn.ID(), *x, *y)
	if err != nil {
		that.reject(conn, err)
		return fmt.Errorf("move rejected: %w", err)
	}

	if turn.Concluded || !that.settings.CoalesceUpdates {
		that.broadcast(match, newUpdateBoard(session.Board, turn.Mover.PlayerID))
	}

	if turn.Concluded {
		log.Info("game concluded", "session", session.ID, "winner", turn.Winner, "moves", session.Moves)
		that.conclude(match, "")

		return nil
	}

	that.broadcast(match, newUpdateBoard(session.Board, session.ActiveParticipant().PlayerID))

	return nil
}

// Disconnect handles a closed connection. It is idempotent.
func (that *GameManager) Disconnect(connID string) {
	log := that.logger.With("method", "Disconnect", "conn", connID)

	if that.queue.Remove(connID) {
		log.Debug("removed waiting player")
		return
	}

	match, ok := that.registry.Get(connID)
	if !ok {
		return
	}

	session := match.Session
	leaver, _ := session.Participant(connID)
	remaining := session.Opponent(connID)

	session.Conclude(entity.OutcomeAbandoned, entity.WinnerOpponentDisconnected)

	if err := match.Send(remaining.ConnID, newGameEnd(entity.WinnerOpponentDisconnected)); err != nil {
		log.Warn("failed to notify opponent", "error", err)
	}

	log.Info("game abandoned", "session", session.ID, "player", leaver.PlayerID)

	that.release(match, leaver.PlayerID)
}

func (that *GameManager) Snapshot() Snapshot {
	return Snapshot{
		Waiting:  that.queue.Len(),
		Sessions: that.registry.Len(),
	}
}

func (that *GameManager) createMatch(waiting, joiner *WaitingEntry) *Match {
	session := entity.NewSession(
		uuid.NewString(),
		&entity.Participant{ConnID: waiting.Conn.ID(), PlayerID: waiting.PlayerID},
		&entity.Participant{ConnID: joiner.Conn.ID(), PlayerID: joiner.PlayerID},
		that.settings.BoardSize,
		that.settings.WinLength,
	)

	that.logger.Debug("players paired",
		"session", session.ID,
		"waiting", waiting.PlayerID,
		"joiner", joiner.PlayerID,
		"waited", joiner.Since.Sub(waiting.Since).String(),
	)

	return newMatch(session, waiting.Conn, joiner.Conn)
}

func (that *GameManager) conclude(match *Match, leaver string) {
	that.broadcast(match, newGameEnd(match.Session.Winner))
	that.release(match, leaver)
}

func (that *GameManager) release(match *Match, leaver string) {
	that.registry.Remove(match)

	if that.reporter != nil {
		that.reporter.MatchConcluded(entity.NewMatchResult(match.Session, leaver))
	}
}

func (that *GameManager) broadcast(match *Match, message any) {
	if err := match.Broadcast(message); err != nil {
		that.logger.Warn("broadcast failed", "session", match.Session.ID, "error", err)
	}
}

func (that *GameManager) reject(conn Connection, err error) {
	if sendErr := conn.Send(newErrorMessage(err)); sendErr != nil {
		that.logger.Warn("failed to send error", "conn", conn.ID(), "error", sendErr)
	}
}
