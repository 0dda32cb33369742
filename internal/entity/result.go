package entity

import "time"

const (
	OutcomeWin       = "win"
	OutcomeDraw      = "draw"
	OutcomeAbandoned = "abandoned"
)

// MatchResult is the record kept for a concluded session.
type MatchResult struct {
	ID           string    `json:"id"`
	Players      []string  `json:"players"`
	Winner       string    `json:"winner"`
	Outcome      string    `json:"outcome"`
	Disconnected string    `json:"disconnected,omitempty"`
	Moves        int       `json:"moves"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// NewMatchResult snapshots a concluded session. leaver is the identity of the player whose
// connection dropped, empty for a win or a draw.
func NewMatchResult(session *Session, leaver string) *MatchResult {
	result := &MatchResult{
		ID:         session.ID,
		Players:    session.PlayerIDs(),
		Winner:     session.Winner,
		Outcome:    session.Outcome,
		Moves:      session.Moves,
		StartedAt:  session.StartedAt,
		FinishedAt: time.Now(),
	}

	if session.Outcome == OutcomeAbandoned {
		result.Disconnected = leaver
	}

	return result
}

// PlayerStats aggregates the results of every recorded match of one player.
type PlayerStats struct {
	PlayerID  string `json:"player_id"`
	Wins      int64  `json:"wins"`
	Losses    int64  `json:"losses"`
	Draws     int64  `json:"draws"`
	Abandoned int64  `json:"abandoned"`
}

func (that *PlayerStats) Played() int64 {
	return that.Wins + that.Losses + that.Draws + that.Abandoned
}

// MatchStarted is announced when two waiting players are paired.
type MatchStarted struct {
	ID        string    `json:"id"`
	Players   []string  `json:"players"`
	BoardSize int       `json:"board_size"`
	StartedAt time.Time `json:"started_at"`
}
