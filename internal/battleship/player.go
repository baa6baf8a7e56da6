package battleship

import (
	"fmt"
	"math/rand"
)

// PlayerKind tells whether a player is driven by a person or the computer.
type PlayerKind string

const (
	Human    PlayerKind = "human"
	Computer PlayerKind = "computer"
)

// Player owns one board and attacks the opponent's.
type Player struct {
	name  string
	kind  PlayerKind
	board *Board
}

// NewPlayer creates a player bound to board.
func NewPlayer(name string, kind PlayerKind, board *Board) *Player {
	return &Player{name: name, kind: kind, board: board}
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Kind returns whether the player is human or computer.
func (p *Player) Kind() PlayerKind { return p.kind }

// Board returns the player's own board.
func (p *Player) Board() *Board { return p.board }

// SetBoard binds the player to a new board.
func (p *Player) SetBoard(b *Board) { p.board = b }

// Attack fires at (x, y) on the opponent's board. It rejects bad targets
// itself with the same errors the board would return.
func (p *Player) Attack(x, y int, opponent *Board) (AttackResult, error) {
	if opponent == nil {
		return AttackResult{}, fmt.Errorf("%w: no opponent board", ErrInvalidBoard)
	}
	if !opponent.InBounds(x, y) {
		return AttackResult{}, fmt.Errorf("%w: (%d, %d) outside 0..%d", ErrInvalidCoordinates, x, y, opponent.Size()-1)
	}
	if opponent.HasBeenAttacked(x, y) {
		return AttackResult{}, fmt.Errorf("%w: (%d, %d)", ErrAlreadyAttacked, x, y)
	}
	return opponent.ReceiveAttack(x, y)
}

// ValidCoordinates samples random cells until it finds one the opponent's
// board has not been attacked on. A nil rng uses a time-seeded source.
func (p *Player) ValidCoordinates(opponent *Board, rng *rand.Rand) (Coord, error) {
	if rng == nil {
		rng = newTimeRand()
	}
	size := opponent.Size()
	if opponent.AttackCount() >= size*size {
		return Coord{}, ErrNoTargetsLeft
	}
	for {
		x, y := rng.Intn(size), rng.Intn(size)
		if !opponent.HasBeenAttacked(x, y) {
			return Coord{X: x, Y: y}, nil
		}
	}
}
