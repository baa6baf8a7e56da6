package multiplayer

import (
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
)

// ErrNotYourTurn rejects an attack from the player who is not on turn.
var ErrNotYourTurn = errors.New("multiplayer: not your turn")

// MatchResult is the outcome of an online match.
type MatchResult struct {
	MatchID   MatchID
	Reason    MatchEndReason
	Winner    PlayerID
	HasWinner bool
	Score     [2]int
	Shots     [2]int
	Duration  time.Duration
}

type attackRequest struct {
	session SessionID
	x, y    int
}

type departure struct {
	session SessionID
	reason  MatchEndReason
}

// OnlineMatch runs one game between two sessions. Run is the only code that
// touches the game; attacks and disconnects reach it through channels.
type OnlineMatch struct {
	id   MatchID
	code string
	game *battleship.Game

	sessions [2]SessionHandle

	attacks    chan attackRequest
	departures chan departure
	done       chan struct{}
	doneOnce   sync.Once

	turnTimeout time.Duration // 0 disables
	started     time.Time
	seq         uint64
	shots       [2]int
}

// NewOnlineMatch creates a match around an initialised game. p1 plays the
// engine's first slot.
func NewOnlineMatch(id MatchID, code string, game *battleship.Game, p1, p2 SessionHandle, turnTimeout time.Duration) *OnlineMatch {
	return &OnlineMatch{
		id:          id,
		code:        code,
		game:        game,
		sessions:    [2]SessionHandle{p1, p2},
		attacks:     make(chan attackRequest, 16),
		departures:  make(chan departure, 2),
		done:        make(chan struct{}),
		turnTimeout: turnTimeout,
	}
}

func (m *OnlineMatch) ID() MatchID   { return m.id }
func (m *OnlineMatch) Code() string { return m.code }

// Session returns the handle seated at p.
func (m *OnlineMatch) Session(p PlayerID) SessionHandle {
	return m.sessions[p]
}

// SubmitAttack queues an attack. Returns false if the queue is full or the
// match has finished.
func (m *OnlineMatch) SubmitAttack(session SessionID, x, y int) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.attacks <- attackRequest{session: session, x: x, y: y}:
		return true
	default:
		return false
	}
}

// PlayerDisconnected tells the match a session is gone.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	m.depart(sessionID, MatchEndReasonDisconnect)
}

// Forfeit ends the match with sessionID as the loser.
func (m *OnlineMatch) Forfeit(sessionID SessionID) {
	m.depart(sessionID, MatchEndReasonForfeit)
}

func (m *OnlineMatch) depart(sessionID SessionID, reason MatchEndReason) {
	select {
	case m.departures <- departure{session: sessionID, reason: reason}:
	default:
	}
}

// Run plays the match until it ends, then calls onComplete.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	m.started = time.Now()
	go m.monitorSessions()
	m.broadcast(nil, Player1)

	turn := m.newTurnTimer()
	defer turn.Stop()

	for {
		select {
		case req := <-m.attacks:
			applied, over := m.handleAttack(req)
			if over {
				winner, _ := m.game.Winner()
				if onComplete != nil {
					onComplete(m.result(MatchEndReasonCompleted, playerFor(winner)))
				}
				return
			}
			if applied {
				m.resetTurnTimer(turn)
			}

		case <-turn.C:
			loser := playerFor(m.game.CurrentSlot())
			if onComplete != nil {
				onComplete(m.result(MatchEndReasonTimeout, loser.Other()))
			}
			return

		case d := <-m.departures:
			loser, ok := m.seat(d.session)
			if !ok {
				continue
			}
			if onComplete != nil {
				onComplete(m.result(d.reason, loser.Other()))
			}
			return

		case <-m.done:
			return
		}
	}
}

// handleAttack resolves a queued attack. applied reports whether the shot
// landed; over reports that it ended the game.
func (m *OnlineMatch) handleAttack(req attackRequest) (applied, over bool) {
	side, ok := m.seat(req.session)
	if !ok {
		return false, false
	}
	sender := m.sessions[side]

	if slotFor(side) != m.game.CurrentSlot() {
		sender.Send(AttackRejectedEvent{MatchID: m.id, Message: ErrNotYourTurn.Error()})
		return false, false
	}

	res, err := m.game.TakeTurn(req.x, req.y)
	if err != nil {
		sender.Send(AttackRejectedEvent{MatchID: m.id, Kind: battleship.Kind(err), Message: err.Error()})
		return false, false
	}

	m.shots[side]++
	m.broadcast(&res, side)
	return true, m.game.IsGameOver()
}

// broadcast sends each player its own masked view.
func (m *OnlineMatch) broadcast(last *battleship.AttackResult, by PlayerID) {
	m.seq++
	snap := m.game.Snapshot()
	current := playerFor(m.game.CurrentSlot())
	over := m.game.IsGameOver()

	for _, p := range []PlayerID{Player1, Player2} {
		m.sessions[p].Send(SnapshotEvent{
			MatchID:  m.id,
			Seq:      m.seq,
			Side:     p,
			Snapshot: snap.Masked(slotFor(p)),
			YourTurn: !over && current == p,
			Last:     last,
			LastBy:   by,
		})
	}
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID:   m.id,
		Reason:    reason,
		Winner:    winner,
		HasWinner: true,
		Score:     m.game.Score(),
		Shots:     m.shots,
		Duration:  time.Since(m.started),
	}
}

func (m *OnlineMatch) seat(id SessionID) (PlayerID, bool) {
	for _, p := range []PlayerID{Player1, Player2} {
		if m.sessions[p].ID() == id {
			return p, true
		}
	}
	return Player1, false
}

func (m *OnlineMatch) newTurnTimer() *time.Timer {
	if m.turnTimeout <= 0 {
		t := time.NewTimer(time.Hour)
		t.Stop()
		return t
	}
	return time.NewTimer(m.turnTimeout)
}

func (m *OnlineMatch) resetTurnTimer(t *time.Timer) {
	if m.turnTimeout <= 0 {
		return
	}
	t.Reset(m.turnTimeout)
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.sessions[Player1].Done():
		m.PlayerDisconnected(m.sessions[Player1].ID())
	case <-m.sessions[Player2].Done():
		m.PlayerDisconnected(m.sessions[Player2].ID())
	case <-m.done:
	}
}

// Stop ends the match without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
