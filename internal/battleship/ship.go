package battleship

import "fmt"

// Orientation is the axis a ship extends along from its origin.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Valid reports whether o is one of the two supported orientations.
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// Toggle returns the other orientation. Unset orientations become horizontal.
func (o Orientation) Toggle() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// ValidationMode selects how strictly NewShipWithMode checks its arguments.
type ValidationMode int

const (
	// ValidationStrict checks length, orientation and type.
	ValidationStrict ValidationMode = iota
	// ValidationMinimal checks only the length.
	ValidationMinimal
)

// ParseValidationMode maps a config value to a ValidationMode.
// Empty input selects strict validation.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch s {
	case "", "strict":
		return ValidationStrict, nil
	case "minimal":
		return ValidationMinimal, nil
	default:
		return ValidationStrict, fmt.Errorf("battleship: unknown ship validation mode %q", s)
	}
}

// Ship is a vessel with a fixed length and a hit counter that saturates at
// that length. Only Hit mutates it.
type Ship struct {
	length      int
	orientation Orientation
	kind        string
	hits        int
}

// ShipState is a point-in-time copy of a ship's state.
type ShipState struct {
	Length      int         `json:"length"`
	Hits        int         `json:"hits"`
	Sunk        bool        `json:"isSunk"`
	Orientation Orientation `json:"orientation,omitempty"`
	Type        string      `json:"type,omitempty"`
}

// NewShip creates a ship with strict validation.
func NewShip(length int, orientation Orientation, kind string) (*Ship, error) {
	return NewShipWithMode(ValidationStrict, length, orientation, kind)
}

// NewShipWithMode creates a ship, validating the arguments according to mode.
func NewShipWithMode(mode ValidationMode, length int, orientation Orientation, kind string) (*Ship, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if mode == ValidationStrict {
		if !orientation.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOrientation, orientation)
		}
		if kind == "" {
			return nil, fmt.Errorf("%w: type must not be empty", ErrInvalidType)
		}
	}
	return &Ship{
		length:      length,
		orientation: orientation,
		kind:        kind,
	}, nil
}

// Length returns the number of cells the ship occupies.
func (s *Ship) Length() int { return s.length }

// Orientation returns the orientation the ship was created with.
func (s *Ship) Orientation() Orientation { return s.orientation }

// Type returns the ship's type tag, e.g. "carrier".
func (s *Ship) Type() string { return s.kind }

// Hits returns how many times the ship has been hit.
func (s *Ship) Hits() int { return s.hits }

// Hit records one hit. Hits past the ship's length are ignored.
func (s *Ship) Hit() {
	if s.hits < s.length {
		s.hits++
	}
}

// IsSunk reports whether every cell of the ship has been hit.
func (s *Ship) IsSunk() bool {
	return s.hits == s.length
}

// State returns the ship's current state.
func (s *Ship) State() ShipState {
	return ShipState{
		Length:      s.length,
		Hits:        s.hits,
		Sunk:        s.IsSunk(),
		Orientation: s.orientation,
		Type:        s.kind,
	}
}
