package entity

import "time"

type SessionState string

const (
	StateAwaitingMove SessionState = "awaiting_move"
	StateConcluded    SessionState = "concluded"
)

// Winner values that are not a player identity.
const (
	WinnerDraw                 = "draw"
	WinnerOpponentDisconnected = "opponent_disconnected"
)

const DefaultWinLength = 3

// Participant is one of the two players bound to a session.
type Participant struct {
	ConnID   string `json:"-"`
	PlayerID string `json:"id"`
	Mark     Mark   `json:"mark"`
}

// Session is one game between exactly two participants. The participant at index 0 is the
// one who was already waiting; it plays X and moves first.
type Session struct {
	ID           string
	Participants [2]*Participant
	Board        Board
	WinLength    int
	Active       int
	State        SessionState
	Outcome      string
	Winner       string
	Moves        int
	StartedAt    time.Time
}

func NewSession(id string, first, second *Participant, boardSize, winLength int) *Session {
	first.Mark = MarkX
	second.Mark = MarkO

	return &Session{
		ID:           id,
		Participants: [2]*Participant{first, second},
		Board:        NewBoard(boardSize),
		WinLength:    winLength,
		Active:       0,
		State:        StateAwaitingMove,
		StartedAt:    time.Now(),
	}
}

func (that *Session) ActiveParticipant() *Participant {
	return that.Participants[that.Active]
}

// Participant returns the participant bound to the given connection.
func (that *Session) Participant(connID string) (*Participant, bool) {
	for _, participant := range that.Participants {
		if participant.ConnID == connID {
			return participant, true
		}
	}

	return nil, false
}

// Opponent returns the participant that is not bound to connID.
func (that *Session) Opponent(connID string) *Participant {
	if that.Participants[0].ConnID == connID {
		return that.Participants[1]
	}

	return that.Participants[0]
}

func (that *Session) PlayerIDs() []string {
	return []string{that.Participants[0].PlayerID, that.Participants[1].PlayerID}
}

func (that *Session) SwitchTurn() {
	that.Active = 1 - that.Active
}

// Conclude ends the session. outcome is one of OutcomeWin, OutcomeDraw or OutcomeAbandoned;
// winner is the value announced in game_end and is only a player identity for a win.
func (that *Session) Conclude(outcome, winner string) {
	that.State = StateConcluded
	that.Outcome = outcome
	that.Winner = winner
}

func (that *Session) IsConcluded() bool {
	return that.State == StateConcluded
}
