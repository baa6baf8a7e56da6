package battleship

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPlayerAttackRejectsBeforeBoard(t *testing.T) {
	opponent := newTestBoard(t)
	p := NewPlayer("alice", Human, newTestBoard(t))

	if _, err := p.Attack(0, 0, nil); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("Attack(nil board) error = %v, expected ErrInvalidBoard", err)
	}
	if _, err := p.Attack(10, 0, opponent); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("Attack(10, 0) error = %v, expected ErrInvalidCoordinates", err)
	}

	if _, err := p.Attack(3, 3, opponent); err != nil {
		t.Fatalf("Attack(3, 3) failed: %v", err)
	}
	if _, err := p.Attack(3, 3, opponent); !errors.Is(err, ErrAlreadyAttacked) {
		t.Errorf("repeat Attack(3, 3) error = %v, expected ErrAlreadyAttacked", err)
	}
	if opponent.AttackCount() != 1 {
		t.Errorf("AttackCount() = %d, expected 1", opponent.AttackCount())
	}
}

func TestPlayerAttackMatchesBoardErrors(t *testing.T) {
	targets := []Coord{{-1, 2}, {2, 12}}
	for _, c := range targets {
		viaPlayer := newTestBoard(t)
		direct := newTestBoard(t)
		p := NewPlayer("bob", Computer, nil)

		_, playerErr := p.Attack(c.X, c.Y, viaPlayer)
		_, boardErr := direct.ReceiveAttack(c.X, c.Y)
		if Kind(playerErr) != Kind(boardErr) {
			t.Errorf("(%d, %d): player kind %q, board kind %q", c.X, c.Y, Kind(playerErr), Kind(boardErr))
		}
	}
}

func TestValidCoordinatesAvoidsAttackedCells(t *testing.T) {
	b, err := NewBoard(3, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlayer("cpu", Computer, nil)
	rng := rand.New(rand.NewSource(7))

	// Leave only (2, 1) open.
	for y := range 3 {
		for x := range 3 {
			if x == 2 && y == 1 {
				continue
			}
			if _, err := b.ReceiveAttack(x, y); err != nil {
				t.Fatal(err)
			}
		}
	}

	for range 10 {
		c, err := p.ValidCoordinates(b, rng)
		if err != nil {
			t.Fatalf("ValidCoordinates() failed: %v", err)
		}
		if c != (Coord{X: 2, Y: 1}) {
			t.Fatalf("ValidCoordinates() = %+v, expected (2, 1)", c)
		}
	}

	if _, err := b.ReceiveAttack(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ValidCoordinates(b, rng); !errors.Is(err, ErrNoTargetsLeft) {
		t.Errorf("ValidCoordinates() on exhausted board error = %v, expected ErrNoTargetsLeft", err)
	}
}

func TestValidCoordinatesInBounds(t *testing.T) {
	b := newTestBoard(t)
	p := NewPlayer("cpu", Computer, nil)
	rng := rand.New(rand.NewSource(42))

	for range DefaultBoardSize * DefaultBoardSize {
		c, err := p.ValidCoordinates(b, rng)
		if err != nil {
			t.Fatalf("ValidCoordinates() failed: %v", err)
		}
		if !b.InBounds(c.X, c.Y) || b.HasBeenAttacked(c.X, c.Y) {
			t.Fatalf("ValidCoordinates() = %+v, not a fresh in-bounds cell", c)
		}
		if _, err := b.ReceiveAttack(c.X, c.Y); err != nil {
			t.Fatal(err)
		}
	}
}

func TestValidCoordinatesNilRand(t *testing.T) {
	b := newTestBoard(t)
	p := NewPlayer("cpu", Computer, nil)
	if _, err := b.ReceiveAttack(0, 0); err != nil {
		t.Fatal(err)
	}

	c, err := p.ValidCoordinates(b, nil)
	if err != nil {
		t.Fatalf("ValidCoordinates(nil) failed: %v", err)
	}
	if !b.InBounds(c.X, c.Y) || b.HasBeenAttacked(c.X, c.Y) {
		t.Errorf("ValidCoordinates(nil) = %+v, not a fresh in-bounds cell", c)
	}
}
