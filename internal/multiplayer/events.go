package multiplayer

import (
	"time"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
)

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent to the host once its lobby exists.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyPlayerLeftEvent tells the host the joiner left before the match.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when the fleets are placed.
type MatchStartedEvent struct {
	MatchID  MatchID
	Side     PlayerID
	Code     string
	Opponent string
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries the match state as seen by the receiving player:
// the opponent's unhit ships are hidden.
type SnapshotEvent struct {
	MatchID  MatchID
	Seq      uint64
	Side     PlayerID
	Snapshot battleship.Snapshot
	YourTurn bool

	// Last is the attack that produced this snapshot, nil for the first one.
	Last   *battleship.AttackResult
	LastBy PlayerID
}

func (SnapshotEvent) sessionEvent() {}

// AttackRejectedEvent is sent only to the player whose attack failed.
type AttackRejectedEvent struct {
	MatchID MatchID
	Kind    string // Engine error kind, empty for turn violations
	Message string
}

func (AttackRejectedEvent) sessionEvent() {}

// MatchEndedEvent is sent to both players when the match is over.
type MatchEndedEvent struct {
	MatchID   MatchID
	Reason    MatchEndReason
	Winner    PlayerID
	HasWinner bool
	Score     [2]int // Ships sunk by Player1 and Player2
	Shots     [2]int
	Duration  time.Duration
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // A fleet was sunk
	MatchEndReasonDisconnect                       // A player's session closed
	MatchEndReasonForfeit                          // A player left the match
	MatchEndReasonTimeout                          // A player took too long to fire
	MatchEndReasonHostLeft                         // Host left the lobby
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Fleet destroyed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonForfeit:
		return "Opponent forfeited"
	case MatchEndReasonTimeout:
		return "Turn timed out"
	case MatchEndReasonHostLeft:
		return "Host left"
	default:
		return "Unknown"
	}
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg asks for a new lobby hosted by the session.
type CreateLobbyMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg asks to join the lobby with the given code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a lobby the session hosts.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// AttackMsg fires at (X, Y) on the opponent's board.
type AttackMsg struct {
	SessionID SessionID
	MatchID   MatchID
	X, Y      int
}

func (AttackMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session goes away.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
