package battleship

import (
	"errors"
	"testing"
)

// rowPlacer lays the fleet out horizontally, one ship per row from the top.
var rowPlacer = PlacerFunc(func(b *Board, manifest Manifest) error {
	for i, spec := range manifest {
		ship, err := NewShip(spec.Length, Horizontal, spec.Type)
		if err != nil {
			return err
		}
		if err := b.PlaceShip(ship, 0, i, Horizontal); err != nil {
			return err
		}
	}
	return nil
})

// fleetCells returns the cells rowPlacer occupies.
func fleetCells(manifest Manifest) []Coord {
	var cells []Coord
	for i, spec := range manifest {
		cells = append(cells, Footprint(spec.Length, 0, i, Horizontal)...)
	}
	return cells
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Placer = rowPlacer
	g := NewGame(cfg)
	if _, err := g.InitGame(); err != nil {
		t.Fatalf("InitGame() failed: %v", err)
	}
	return g
}

func TestInitGame(t *testing.T) {
	g := NewGame(DefaultConfig())
	if g.State() != StateNotStarted {
		t.Fatalf("new game state = %v, expected not started", g.State())
	}

	snap, err := g.InitGame()
	if err != nil {
		t.Fatalf("InitGame() failed: %v", err)
	}
	if snap.State != StateInProgress || g.State() != StateInProgress {
		t.Errorf("state = %v, expected in progress", g.State())
	}
	if g.CurrentSlot() != Slot1 {
		t.Errorf("CurrentSlot() = %v, expected player1", g.CurrentSlot())
	}
	for _, p := range g.Players() {
		if p == nil {
			t.Fatal("InitGame() left a seat empty")
		}
		if !p.Board().AllShipsPlaced().AllPlaced {
			t.Errorf("%s fleet incomplete", p.Name())
		}
	}
	if g.Player(Slot1).Kind() != Human || g.Player(Slot2).Kind() != Computer {
		t.Error("default seats should be human then computer")
	}
}

func TestInitGameRejectsSmallBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoardSize = 4

	g := NewGame(cfg)
	if _, err := g.InitGame(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("InitGame() error = %v, expected ErrInvalidBoard", err)
	}
	if g.State() != StateNotStarted {
		t.Errorf("state = %v after failed init, expected not started", g.State())
	}
}

func TestInitGamePlacerFailure(t *testing.T) {
	tests := []struct {
		name    string
		placer  Placer
		wantErr error
	}{
		{
			name:    "placer error",
			placer:  PlacerFunc(func(*Board, Manifest) error { return ErrPlacementExhausted }),
			wantErr: ErrPlacementExhausted,
		},
		{
			name: "partial fleet",
			placer: PlacerFunc(func(b *Board, m Manifest) error {
				return rowPlacer(b, m[:2])
			}),
			wantErr: ErrPlacementExhausted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Placer = tc.placer
			g := NewGame(cfg)

			if _, err := g.InitGame(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("InitGame() error = %v, expected %v", err, tc.wantErr)
			}
			if g.State() != StateNotStarted {
				t.Errorf("state = %v, expected not started", g.State())
			}
			if _, err := g.Attack(0, 0); !errors.Is(err, ErrGameNotInProgress) {
				t.Errorf("Attack() error = %v, expected ErrGameNotInProgress", err)
			}
		})
	}
}

func TestAttackBeforeInit(t *testing.T) {
	g := NewGame(DefaultConfig())
	if _, err := g.Attack(1, 1); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("Attack() error = %v, expected ErrGameNotInProgress", err)
	}
	g.SwitchTurn()
	if g.CurrentSlot() != Slot1 {
		t.Error("SwitchTurn() before InitGame should be a no-op")
	}
}

func TestAttackDoesNotSwitchTurn(t *testing.T) {
	g := newTestGame(t)

	result, err := g.Attack(0, 0)
	if err != nil {
		t.Fatalf("Attack() failed: %v", err)
	}
	if result.Result != OutcomeHit {
		t.Errorf("Attack(0, 0) = %v, expected hit", result.Result)
	}
	if g.CurrentSlot() != Slot1 {
		t.Error("Attack() must not change the turn")
	}
	if g.Player(Slot2).Board().AttackCount() != 1 || g.Player(Slot1).Board().AttackCount() != 0 {
		t.Error("Attack() should land on the opponent's board only")
	}

	g.SwitchTurn()
	if g.CurrentSlot() != Slot2 {
		t.Errorf("CurrentSlot() = %v after SwitchTurn, expected player2", g.CurrentSlot())
	}
}

func TestTakeTurn(t *testing.T) {
	g := newTestGame(t)

	if _, err := g.TakeTurn(9, 9); err != nil {
		t.Fatalf("TakeTurn() failed: %v", err)
	}
	if g.CurrentSlot() != Slot2 {
		t.Fatalf("CurrentSlot() = %v, expected player2", g.CurrentSlot())
	}

	// Rejected shots keep the turn.
	if _, err := g.TakeTurn(-1, 0); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("TakeTurn(-1, 0) error = %v, expected ErrInvalidCoordinates", err)
	}
	if g.CurrentSlot() != Slot2 {
		t.Error("rejected TakeTurn changed the turn")
	}

	if _, err := g.TakeTurn(9, 9); err != nil {
		t.Fatalf("player2 TakeTurn(9, 9) failed: %v", err)
	}
	if _, err := g.TakeTurn(9, 9); !errors.Is(err, ErrAlreadyAttacked) {
		t.Errorf("player1 repeat TakeTurn(9, 9) error = %v, expected ErrAlreadyAttacked", err)
	}
}

func TestPlayToVictory(t *testing.T) {
	g := newTestGame(t)
	targets := fleetCells(StandardFleet())

	missX, missY := 9, 5
	for i, c := range targets {
		result, err := g.TakeTurn(c.X, c.Y)
		if err != nil {
			t.Fatalf("shot %d at (%d, %d) failed: %v", i, c.X, c.Y, err)
		}
		if result.Result != OutcomeHit {
			t.Fatalf("shot %d at (%d, %d) = %v, expected hit", i, c.X, c.Y, result.Result)
		}
		if g.IsGameOver() {
			if i != len(targets)-1 {
				t.Fatalf("game over after %d of %d hits", i+1, len(targets))
			}
			break
		}

		if _, err := g.TakeTurn(missX, missY); err != nil {
			t.Fatalf("player2 miss at (%d, %d) failed: %v", missX, missY, err)
		}
		missY++
		if missY == DefaultBoardSize {
			missY = 5
			missX--
		}
	}

	if !g.IsGameOver() || g.State() != StateOver {
		t.Fatal("game should be over once the fleet is sunk")
	}
	winner, ok := g.Winner()
	if !ok || winner != Slot1 {
		t.Errorf("Winner() = %v, %v; expected player1", winner, ok)
	}
	if g.CurrentSlot() != Slot1 {
		t.Error("the winning TakeTurn should not pass the turn")
	}
	if score := g.Score(); score[Slot1] != 5 || score[Slot2] != 0 {
		t.Errorf("Score() = %v, expected [5 0]", score)
	}
	if _, err := g.Attack(9, 0); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("Attack() after game over error = %v, expected ErrGameNotInProgress", err)
	}

	snap := g.Snapshot()
	if !snap.HasWinner || snap.Winner != Slot1 || snap.Players[Slot2].ShipsRemaining != 0 {
		t.Errorf("Snapshot() = winner %v/%v remaining %d", snap.Winner, snap.HasWinner, snap.Players[Slot2].ShipsRemaining)
	}
}

func TestWinnerWhileInProgress(t *testing.T) {
	g := newTestGame(t)
	if _, ok := g.Winner(); ok {
		t.Error("Winner() reported a winner mid-game")
	}
}

func TestInitGameDiscardsPreviousState(t *testing.T) {
	g := newTestGame(t)
	for _, c := range fleetCells(StandardFleet())[:5] {
		if _, err := g.Attack(c.X, c.Y); err != nil {
			t.Fatal(err)
		}
	}
	g.SwitchTurn()

	if _, err := g.InitGame(); err != nil {
		t.Fatalf("second InitGame() failed: %v", err)
	}
	if g.CurrentSlot() != Slot1 {
		t.Error("InitGame() should reset the turn")
	}
	if g.Score() != [2]int{} {
		t.Errorf("Score() = %v after re-init, expected zero", g.Score())
	}
	if n := g.Player(Slot2).Board().AttackCount(); n != 0 {
		t.Errorf("opponent board has %d attacks after re-init", n)
	}
}

func TestSnapshotMasked(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.Attack(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Attack(9, 9); err != nil {
		t.Fatal(err)
	}

	snap := g.Snapshot()
	masked := snap.Masked(Slot1)

	opp := masked.Players[Slot2].Cells
	if opp[0][0].Status != CellHit {
		t.Errorf("hit cell status = %v, expected hit", opp[0][0].Status)
	}
	if opp[9][9].Status != CellMiss {
		t.Errorf("miss cell status = %v, expected miss", opp[9][9].Status)
	}
	for y, row := range opp {
		for x, c := range row {
			if c.Status == CellShip || (c.Ship && c.Status != CellHit) {
				t.Fatalf("opponent cell (%d, %d) leaks a ship: %+v", x, y, c)
			}
		}
	}

	own := masked.Players[Slot1].Cells
	if own[0][0].Status != CellShip {
		t.Errorf("own ship cell status = %v, expected ship", own[0][0].Status)
	}

	if snap.Players[Slot2].Cells[0][1].Status != CellShip {
		t.Error("Masked() modified the source snapshot")
	}
}
