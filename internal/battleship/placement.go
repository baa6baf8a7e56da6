package battleship

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultMaxPlacementAttempts bounds RandomPlacer's retries per ship.
const DefaultMaxPlacementAttempts = 1000

// Placer positions a full fleet on a board using Board.PlaceShip.
type Placer interface {
	Place(b *Board, manifest Manifest) error
}

// PlacerFunc adapts a function to the Placer interface.
type PlacerFunc func(b *Board, manifest Manifest) error

// Place calls f(b, manifest).
func (f PlacerFunc) Place(b *Board, manifest Manifest) error {
	return f(b, manifest)
}

// RandomPlacer places each ship at a random origin and orientation,
// retrying on geometric failures. The zero value is usable and seeds
// itself from the clock on first use.
type RandomPlacer struct {
	Rand        *rand.Rand // Time-seeded if nil
	MaxAttempts int            // Per ship; DefaultMaxPlacementAttempts if <= 0
	Validation  ValidationMode // Used when creating the ships
}

// NewRandomPlacer creates a RandomPlacer seeded with seed.
func NewRandomPlacer(seed int64) *RandomPlacer {
	return &RandomPlacer{
		Rand:        rand.New(rand.NewSource(seed)),
		MaxAttempts: DefaultMaxPlacementAttempts,
	}
}

// Place implements Placer. A nil manifest places the board's own.
func (p *RandomPlacer) Place(b *Board, manifest Manifest) error {
	if manifest == nil {
		manifest = b.Manifest()
	}
	if p.Rand == nil {
		p.Rand = newTimeRand()
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxPlacementAttempts
	}

	for _, spec := range manifest {
		if err := p.placeOne(b, spec, attempts); err != nil {
			return err
		}
	}
	return nil
}

func (p *RandomPlacer) placeOne(b *Board, spec ShipSpec, attempts int) error {
	for range attempts {
		o := Horizontal
		if p.Rand.Intn(2) == 1 {
			o = o.Toggle()
		}
		ship, err := NewShipWithMode(p.Validation, spec.Length, o, spec.Type)
		if err != nil {
			return err
		}

		x, y := p.Rand.Intn(b.Size()), p.Rand.Intn(b.Size())
		err = b.PlaceShip(ship, x, y, o)
		if err == nil {
			return nil
		}
		if !isPlacementRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %s (length %d) after %d attempts", ErrPlacementExhausted, spec.Type, spec.Length, attempts)
}

func newTimeRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
