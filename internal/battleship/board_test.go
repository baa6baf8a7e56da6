package battleship

import (
	"errors"
	"testing"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(DefaultBoardSize, StandardFleet())
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}
	return b
}

func mustShip(t *testing.T, length int, o Orientation) *Ship {
	t.Helper()
	s, err := NewShip(length, o, "test")
	if err != nil {
		t.Fatalf("NewShip() failed: %v", err)
	}
	return s
}

func occupiedCells(b *Board) int {
	n := 0
	for _, row := range b.Cells() {
		for _, c := range row {
			if c.Ship {
				n++
			}
		}
	}
	return n
}

func TestNewBoardRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := NewBoard(size, nil); !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("NewBoard(%d) error = %v, expected ErrInvalidBoard", size, err)
		}
	}
}

func TestPlaceShipFootprint(t *testing.T) {
	tests := []struct {
		name   string
		length int
		x, y   int
		o      Orientation
	}{
		{"horizontal origin", 2, 0, 0, Horizontal},
		{"horizontal to right edge", 5, 5, 3, Horizontal},
		{"vertical", 3, 4, 2, Vertical},
		{"vertical to bottom edge", 4, 9, 6, Vertical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t)
			ship := mustShip(t, tc.length, tc.o)

			if err := b.PlaceShip(ship, tc.x, tc.y, tc.o); err != nil {
				t.Fatalf("PlaceShip() failed: %v", err)
			}

			cells := b.Cells()
			for _, c := range Footprint(tc.length, tc.x, tc.y, tc.o) {
				if !cells[c.Y][c.X].Ship || cells[c.Y][c.X].Status != CellShip {
					t.Errorf("cell (%d, %d) = %+v, expected ship", c.X, c.Y, cells[c.Y][c.X])
				}
				if b.cells[c.Y][c.X].ship != ship {
					t.Errorf("cell (%d, %d) does not reference the placed ship", c.X, c.Y)
				}
			}
			if got := occupiedCells(b); got != tc.length {
				t.Errorf("occupied cells = %d, expected %d", got, tc.length)
			}
		})
	}
}

func TestPlaceShipValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		ship    func(t *testing.T) *Ship
		x, y    int
		o       Orientation
		wantErr error
	}{
		{"nil ship beats everything", func(*testing.T) *Ship { return nil }, -1, -1, "bogus", ErrInvalidShip},
		{"orientation before coordinates", func(t *testing.T) *Ship { return mustShip(t, 2, Horizontal) }, -1, 0, "bogus", ErrInvalidOrientation},
		{"negative x", func(t *testing.T) *Ship { return mustShip(t, 2, Horizontal) }, -1, 0, Horizontal, ErrInvalidCoordinates},
		{"y too large", func(t *testing.T) *Ship { return mustShip(t, 2, Horizontal) }, 0, 10, Horizontal, ErrInvalidCoordinates},
		{"horizontal overflow", func(t *testing.T) *Ship { return mustShip(t, 4, Horizontal) }, 7, 5, Horizontal, ErrOutOfBoundsHorizontal},
		{"vertical overflow", func(t *testing.T) *Ship { return mustShip(t, 3, Vertical) }, 0, 8, Vertical, ErrOutOfBoundsVertical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t)
			err := b.PlaceShip(tc.ship(t), tc.x, tc.y, tc.o)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("PlaceShip() error = %v, expected %v", err, tc.wantErr)
			}
			if got := occupiedCells(b); got != 0 {
				t.Errorf("rejected placement mutated %d cells", got)
			}
			if len(b.Ships()) != 0 {
				t.Error("rejected placement registered a ship")
			}
		})
	}
}

func TestPlaceShipOverlap(t *testing.T) {
	tests := []struct {
		name          string
		firstX        int
		firstY        int
		firstO        Orientation
		secondX       int
		secondY       int
		secondO       Orientation
		shouldCollide bool
	}{
		{"crossing", 2, 3, Horizontal, 4, 1, Vertical, true},
		{"crossing reversed", 4, 1, Vertical, 2, 3, Horizontal, true},
		{"same row overlap", 0, 0, Horizontal, 2, 0, Horizontal, true},
		{"same column overlap", 5, 5, Vertical, 5, 7, Vertical, true},
		{"adjacent rows", 0, 0, Horizontal, 0, 1, Horizontal, false},
		{"end to end", 0, 0, Horizontal, 3, 0, Horizontal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t)
			if err := b.PlaceShip(mustShip(t, 3, tc.firstO), tc.firstX, tc.firstY, tc.firstO); err != nil {
				t.Fatalf("first PlaceShip() failed: %v", err)
			}

			err := b.PlaceShip(mustShip(t, 3, tc.secondO), tc.secondX, tc.secondY, tc.secondO)
			if tc.shouldCollide {
				if !errors.Is(err, ErrOverlappingShip) {
					t.Fatalf("second PlaceShip() error = %v, expected ErrOverlappingShip", err)
				}
				if got := occupiedCells(b); got != 3 {
					t.Errorf("occupied cells after rejected overlap = %d, expected 3", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("second PlaceShip() unexpected error: %v", err)
			}
		})
	}
}

func TestPlaceSameShipTwiceRegistersOnce(t *testing.T) {
	b := newTestBoard(t)
	ship := mustShip(t, 2, Horizontal)

	if err := b.PlaceShip(ship, 0, 0, Horizontal); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}
	if err := b.PlaceShip(ship, 0, 5, Horizontal); err != nil {
		t.Fatalf("second PlaceShip() failed: %v", err)
	}
	if len(b.Ships()) != 1 {
		t.Errorf("Ships() has %d entries, expected 1", len(b.Ships()))
	}
}

func TestAllShipsPlacedProgress(t *testing.T) {
	b := newTestBoard(t)

	status := b.AllShipsPlaced()
	if status.AllPlaced || status.Placed != 0 {
		t.Fatalf("empty board status = %+v", status)
	}

	rows := 0
	expected := 0
	for _, spec := range StandardFleet() {
		ship, err := NewShip(spec.Length, Horizontal, spec.Type)
		if err != nil {
			t.Fatalf("NewShip() failed: %v", err)
		}
		if err := b.PlaceShip(ship, 0, rows, Horizontal); err != nil {
			t.Fatalf("PlaceShip(%s) failed: %v", spec.Type, err)
		}
		rows++
		expected += spec.Length

		status = b.AllShipsPlaced()
		if status.Placed != expected {
			t.Errorf("after %s Placed = %d, expected %d", spec.Type, status.Placed, expected)
		}
	}

	if !status.AllPlaced || status.Placed != 17 {
		t.Errorf("full fleet status = %+v, expected all placed with 17 cells", status)
	}
}

// Scenario: length-2 ship at the origin, then sink it.
func TestScenarioPlaceAndSink(t *testing.T) {
	b := newTestBoard(t)
	ship := mustShip(t, 2, Horizontal)
	if err := b.PlaceShip(ship, 0, 0, Horizontal); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}

	status := b.AllShipsPlaced()
	if status.AllPlaced || status.Placed != 2 {
		t.Errorf("AllShipsPlaced() = %+v, expected {false 2}", status)
	}

	first, err := b.ReceiveAttack(0, 0)
	if err != nil {
		t.Fatalf("ReceiveAttack(0, 0) failed: %v", err)
	}
	if first.Result != OutcomeHit || first.ShipSunk == nil || *first.ShipSunk {
		t.Errorf("first attack = %+v, expected unsunk hit", first)
	}

	second, err := b.ReceiveAttack(1, 0)
	if err != nil {
		t.Fatalf("ReceiveAttack(1, 0) failed: %v", err)
	}
	if second.Result != OutcomeHit || !second.Sunk() {
		t.Errorf("second attack = %+v, expected sinking hit", second)
	}
	if second.SunkType != "test" {
		t.Errorf("SunkType = %q, expected %q", second.SunkType, "test")
	}
	if !b.AreAllShipsSunk() {
		t.Error("AreAllShipsSunk() should be true after sinking the only ship")
	}
}

func TestReceiveAttackMiss(t *testing.T) {
	b := newTestBoard(t)

	result, err := b.ReceiveAttack(5, 5)
	if err != nil {
		t.Fatalf("ReceiveAttack() failed: %v", err)
	}
	if result.Result != OutcomeMiss || result.ShipSunk != nil {
		t.Errorf("ReceiveAttack() = %+v, expected plain miss", result)
	}
	if result.Coordinates != (Coord{X: 5, Y: 5}) {
		t.Errorf("Coordinates = %+v, expected (5, 5)", result.Coordinates)
	}

	misses := b.MissedAttacks()
	if len(misses) != 1 || misses[0] != (Coord{X: 5, Y: 5}) {
		t.Errorf("MissedAttacks() = %v, expected [(5, 5)]", misses)
	}
	if b.Cells()[5][5].Status != CellMiss {
		t.Errorf("cell status = %v, expected miss", b.Cells()[5][5].Status)
	}
}

func TestReceiveAttackTwice(t *testing.T) {
	for _, withShip := range []bool{false, true} {
		b := newTestBoard(t)
		if withShip {
			if err := b.PlaceShip(mustShip(t, 3, Vertical), 5, 4, Vertical); err != nil {
				t.Fatalf("PlaceShip() failed: %v", err)
			}
		}

		if _, err := b.ReceiveAttack(5, 5); err != nil {
			t.Fatalf("first ReceiveAttack() failed: %v", err)
		}
		if _, err := b.ReceiveAttack(5, 5); !errors.Is(err, ErrAlreadyAttacked) {
			t.Errorf("withShip=%v: second attack error = %v, expected ErrAlreadyAttacked", withShip, err)
		}
		if got := b.AttackCount(); got != 1 {
			t.Errorf("withShip=%v: AttackCount() = %d, expected 1", withShip, got)
		}
	}
}

func TestReceiveAttackOutOfRange(t *testing.T) {
	b := newTestBoard(t)
	for _, c := range []Coord{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, err := b.ReceiveAttack(c.X, c.Y); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ReceiveAttack(%d, %d) error = %v, expected ErrInvalidCoordinates", c.X, c.Y, err)
		}
	}
	if b.AttackCount() != 0 {
		t.Error("rejected attacks should not be recorded")
	}
}

func TestAttackHistoryCounts(t *testing.T) {
	b := newTestBoard(t)
	if err := b.PlaceShip(mustShip(t, 4, Horizontal), 2, 2, Horizontal); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}

	successes := 0
	targets := []Coord{{2, 2}, {3, 2}, {0, 0}, {3, 2}, {11, 1}, {9, 9}, {5, 2}}
	for _, c := range targets {
		if _, err := b.ReceiveAttack(c.X, c.Y); err == nil {
			successes++
		}
	}

	if got := len(b.Hits()) + len(b.MissedAttacks()); got != successes {
		t.Errorf("hits+misses = %d, expected %d successful attacks", got, successes)
	}
	if len(b.AllAttacks()) != successes {
		t.Errorf("AllAttacks() has %d entries, expected %d", len(b.AllAttacks()), successes)
	}
	if !b.HasBeenAttacked(2, 2) || !b.HasBeenAttacked(0, 0) || b.HasBeenAttacked(4, 2) {
		t.Error("HasBeenAttacked() disagrees with attack history")
	}
}

func TestHistoryCopiesAreIsolated(t *testing.T) {
	b := newTestBoard(t)
	if _, err := b.ReceiveAttack(1, 1); err != nil {
		t.Fatalf("ReceiveAttack() failed: %v", err)
	}

	misses := b.MissedAttacks()
	misses[0] = Coord{X: 9, Y: 9}
	cells := b.Cells()
	cells[1][1].Status = CellEmpty

	if b.MissedAttacks()[0] != (Coord{X: 1, Y: 1}) {
		t.Error("mutating MissedAttacks() result changed board history")
	}
	if b.Cells()[1][1].Status != CellMiss {
		t.Error("mutating Cells() result changed the board")
	}
}

func TestAreAllShipsSunk(t *testing.T) {
	b := newTestBoard(t)
	if b.AreAllShipsSunk() {
		t.Error("board with no ships must not count as sunk")
	}

	if err := b.PlaceShip(mustShip(t, 2, Horizontal), 0, 0, Horizontal); err != nil {
		t.Fatal(err)
	}
	if err := b.PlaceShip(mustShip(t, 2, Vertical), 5, 5, Vertical); err != nil {
		t.Fatal(err)
	}

	for _, c := range []Coord{{0, 0}, {1, 0}, {5, 5}} {
		if _, err := b.ReceiveAttack(c.X, c.Y); err != nil {
			t.Fatal(err)
		}
		if b.AreAllShipsSunk() {
			t.Fatalf("AreAllShipsSunk() true after (%d, %d) with a ship afloat", c.X, c.Y)
		}
	}

	if _, err := b.ReceiveAttack(5, 6); err != nil {
		t.Fatal(err)
	}
	if !b.AreAllShipsSunk() {
		t.Error("AreAllShipsSunk() should be true once every ship is sunk")
	}
	if b.ShipsRemaining() != 0 {
		t.Errorf("ShipsRemaining() = %d, expected 0", b.ShipsRemaining())
	}
}

// Scenario: a length-4 ship at x=7 on a 10-wide board does not fit.
func TestScenarioHorizontalOverflow(t *testing.T) {
	b := newTestBoard(t)
	err := b.PlaceShip(mustShip(t, 4, Horizontal), 7, 5, Horizontal)
	if !errors.Is(err, ErrOutOfBoundsHorizontal) {
		t.Fatalf("PlaceShip() error = %v, expected ErrOutOfBoundsHorizontal", err)
	}
	if occupiedCells(b) != 0 {
		t.Error("rejected placement mutated the board")
	}
}

// Scenario: only one length-3 ship of the standard fleet placed.
func TestScenarioPartialFleet(t *testing.T) {
	b := newTestBoard(t)
	if err := b.PlaceShip(mustShip(t, 3, Vertical), 0, 0, Vertical); err != nil {
		t.Fatal(err)
	}
	if got := b.AllShipsPlaced(); got.AllPlaced || got.Placed != 3 {
		t.Errorf("AllShipsPlaced() = %+v, expected {false 3}", got)
	}
}

func TestKind(t *testing.T) {
	b := newTestBoard(t)
	_, err := b.ReceiveAttack(-1, 3)
	if got := Kind(err); got != "InvalidCoordinates" {
		t.Errorf("Kind() = %q, expected InvalidCoordinates", got)
	}
	if Kind(nil) != "" {
		t.Error("Kind(nil) should be empty")
	}
}
