// Package multiplayer pairs SSH sessions through join-code lobbies and runs
// online battleship matches between them. Each match owns its game and is
// the only goroutine that touches it.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/core"
)

// PlayerID is an alias to core.PlayerID. Player1 hosts, Player2 joins.
type PlayerID = core.PlayerID

const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID identifies one connected session.
type SessionID string

// NewSessionID returns a random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MatchID identifies one online match.
type MatchID string

// NewMatchID returns a random match ID.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode tells how a finished match was played.
type MatchMode string

const (
	MatchModeVsCPU  MatchMode = "vs_cpu"
	MatchModeOnline MatchMode = "online"
)

func (m MatchMode) String() string {
	switch m {
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// slotFor maps a seat to its engine slot.
func slotFor(p PlayerID) battleship.Slot {
	if p == Player1 {
		return battleship.Slot1
	}
	return battleship.Slot2
}

// playerFor maps an engine slot to its seat.
func playerFor(s battleship.Slot) PlayerID {
	if s == battleship.Slot1 {
		return Player1
	}
	return Player2
}
