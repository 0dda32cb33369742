package usecase

import (
	"time"
)

// WaitingEntry is a player queued for an opponent.
type WaitingEntry struct {
	Conn     Connection
	PlayerID string
	Since    time.Time
}

type matchFactory func(waiting, joiner *WaitingEntry) *Match

// Queue pairs waiting players first-come-first-served.
type Queue struct {
	entries  []*WaitingEntry
	newMatch matchFactory
}

func NewQueue(newMatch matchFactory) *Queue {
	return &Queue{newMatch: newMatch}
}

// Join pairs the requester with the earliest waiting entry whose identity differs and returns
// the new match. When no such entry exists the requester is enqueued and Join returns nil.
func (that *Queue) Join(conn Connection, playerID string) *Match {
	joiner := &WaitingEntry{Conn: conn, PlayerID: playerID, Since: time.Now()}

	for i, waiting := range that.entries {
		if waiting.PlayerID == playerID {
			continue
		}

		that.entries = append(that.entries[:i], that.entries[i+1:]...)

		return that.newMatch(waiting, joiner)
	}

	that.entries = append(that.entries, joiner)

	return nil
}

// Remove drops the entry of the given connection and reports whether it was queued.
func (that *Queue) Remove(connID string) bool {
	for i, waiting := range that.entries {
		if waiting.Conn.ID() == connID {
			that.entries = append(that.entries[:i], that.entries[i+1:]...)
			return true
		}
	}

	return false
}

func (that *Queue) Contains(connID string) bool {
	for _, waiting := range that.entries {
		if waiting.Conn.ID() == connID {
			return true
		}
	}

	return false
}

func (that *Queue) Len() int {
	return len(that.entries)
}
