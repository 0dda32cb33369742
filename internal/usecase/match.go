package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

// Connection is a live client channel. ID is assigned once at accept time and never reused.
// Send must not block: it either queues the message or fails.
type Connection interface {
	ID() string
	Send(message any) error
}

// Match binds a session to the connections of its two participants.
type Match struct {
	Session *entity.Session
	conns   map[string]Connection
}

func newMatch(session *entity.Session, first, second Connection) *Match {
	return &Match{
		Session: session,
		conns: map[string]Connection{
			first.ID():  first,
			second.ID(): second,
		},
	}
}

// Broadcast sends the message to both participants independently; a failure on one side does
// not prevent delivery to the other.
func (that *Match) Broadcast(message any) error {
	var errs []error

	for _, participant := range that.Session.Participants {
		if err := that.Send(participant.ConnID, message); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("broadcast failed for %d of 2 participants: %w", len(errs), errs[0])
	}

	return nil
}

func (that *Match) Send(connID string, message any) error {
	conn, ok := that.conns[connID]
	if !ok {
		return fmt.Errorf("connection %s is not part of match %s", connID, that.Session.ID)
	}

	if err := conn.Send(message); err != nil {
		return fmt.Errorf("failed to send to %s: %w", connID, err)
	}

	return nil
}

func (that *Match) ConnIDs() []string {
	return []string{that.Session.Participants[0].ConnID, that.Session.Participants[1].ConnID}
}
