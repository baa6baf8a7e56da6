package battleship

import (
	"errors"
	"testing"
)

func TestRandomPlacerPlacesStandardFleet(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		b := newTestBoard(t)
		if err := NewRandomPlacer(seed).Place(b, StandardFleet()); err != nil {
			t.Fatalf("seed %d: Place() failed: %v", seed, err)
		}

		status := b.AllShipsPlaced()
		if !status.AllPlaced || status.Placed != 17 {
			t.Errorf("seed %d: AllShipsPlaced() = %+v", seed, status)
		}
		if len(b.Ships()) != 5 {
			t.Errorf("seed %d: %d ships registered, expected 5", seed, len(b.Ships()))
		}
	}
}

func TestRandomPlacerIsDeterministic(t *testing.T) {
	a, b := newTestBoard(t), newTestBoard(t)
	if err := NewRandomPlacer(99).Place(a, StandardFleet()); err != nil {
		t.Fatal(err)
	}
	if err := NewRandomPlacer(99).Place(b, StandardFleet()); err != nil {
		t.Fatal(err)
	}

	ca, cb := a.Cells(), b.Cells()
	for y := range ca {
		for x := range ca[y] {
			if ca[y][x] != cb[y][x] {
				t.Fatalf("boards differ at (%d, %d) with the same seed", x, y)
			}
		}
	}
}

func TestRandomPlacerExhausts(t *testing.T) {
	b, err := NewBoard(2, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Diagonal blockers leave no room for a length-2 ship.
	for _, c := range []Coord{{0, 0}, {1, 1}} {
		if err := b.PlaceShip(mustShip(t, 1, Horizontal), c.X, c.Y, Horizontal); err != nil {
			t.Fatal(err)
		}
	}

	p := NewRandomPlacer(1)
	p.MaxAttempts = 50
	err = p.Place(b, Manifest{{Type: "destroyer", Length: 2}})
	if !errors.Is(err, ErrPlacementExhausted) {
		t.Fatalf("Place() error = %v, expected ErrPlacementExhausted", err)
	}
	if b.AllShipsPlaced().Placed != 2 {
		t.Error("exhausted placement changed the board")
	}
}

func TestRandomPlacerPropagatesShipErrors(t *testing.T) {
	b := newTestBoard(t)
	err := NewRandomPlacer(1).Place(b, Manifest{{Type: "ghost", Length: 0}})
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Place() error = %v, expected ErrInvalidLength", err)
	}
}

func TestManifestFitsOn(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		size     int
		want     bool
	}{
		{"standard on 10", StandardFleet(), 10, true},
		{"standard on 5", StandardFleet(), 5, true},
		{"standard on 4", StandardFleet(), 4, false},
		{"too many cells", Manifest{{"a", 2}, {"b", 2}, {"c", 1}}, 2, false},
		{"empty", nil, 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.manifest.FitsOn(tc.size); got != tc.want {
				t.Errorf("FitsOn(%d) = %v, expected %v", tc.size, got, tc.want)
			}
		})
	}
}

func TestZeroRandomPlacerUsesBoardManifest(t *testing.T) {
	b := newTestBoard(t)
	var p RandomPlacer
	if err := p.Place(b, nil); err != nil {
		t.Fatalf("Place() with a zero placer failed: %v", err)
	}
	if status := b.AllShipsPlaced(); !status.AllPlaced || status.Placed != 17 {
		t.Errorf("AllShipsPlaced() = %+v, expected the board's fleet", status)
	}
	if p.Rand == nil {
		t.Error("Place() should seed the placer on first use")
	}
}
