package battleship

import "fmt"

// Coord addresses a cell: X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellStatus is the visible state of a cell.
type CellStatus int

const (
	CellEmpty CellStatus = iota
	CellShip
	CellHit
	CellMiss
)

func (s CellStatus) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// cell is one grid position. ship is a lookup reference only; the board's
// ship registry owns the ships.
type cell struct {
	ship   *Ship
	isHit  bool
	status CellStatus
}

// CellView is the renderer's view of a cell: whether some ship occupies it
// and its status, never which ship.
type CellView struct {
	Ship   bool       `json:"ship"`
	Status CellStatus `json:"status"`
}

// Outcome is the result of an attack on a cell.
type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
)

// AttackResult is returned by every successful attack.
// ShipSunk is set only for hits.
type AttackResult struct {
	Result      Outcome `json:"result"`
	ShipSunk    *bool   `json:"shipSunk,omitempty"`
	SunkType    string  `json:"sunkType,omitempty"`
	Coordinates Coord   `json:"coordinates"`
}

// Sunk reports whether the attack sank a ship.
func (r AttackResult) Sunk() bool {
	return r.ShipSunk != nil && *r.ShipSunk
}

// PlacementStatus reports fleet completeness against the board's manifest.
type PlacementStatus struct {
	AllPlaced bool `json:"allPlaced"`
	Placed    int  `json:"placed"`
}

// Board is a square grid holding one fleet.
type Board struct {
	size     int
	cells    [][]cell // cells[y][x]
	ships    []*Ship
	manifest Manifest
	hits     []Coord
	misses   []Coord
}

// NewBoard creates an empty size×size board. The manifest is only consulted
// by AllShipsPlaced and may be nil.
func NewBoard(size int, manifest Manifest) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidBoard, size)
	}
	cells := make([][]cell, size)
	for y := range cells {
		cells[y] = make([]cell, size)
	}
	return &Board{
		size:     size,
		cells:    cells,
		manifest: append(Manifest(nil), manifest...),
	}, nil
}

// Size returns the board's side length.
func (b *Board) Size() int { return b.size }

// Manifest returns a copy of the fleet manifest the board was created with.
func (b *Board) Manifest() Manifest {
	return append(Manifest(nil), b.manifest...)
}

// InBounds reports whether (x, y) addresses a cell on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) checkCoords(x, y int) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) outside 0..%d", ErrInvalidCoordinates, x, y, b.size-1)
	}
	return nil
}

// Footprint returns the cells a ship of the given length would occupy from
// (x, y). It does not check bounds.
func Footprint(length, x, y int, o Orientation) []Coord {
	coords := make([]Coord, length)
	for i := range length {
		if o == Vertical {
			coords[i] = Coord{X: x, Y: y + i}
		} else {
			coords[i] = Coord{X: x + i, Y: y}
		}
	}
	return coords
}

// PlaceShip puts ship on the board with its origin at (x, y). Nothing is
// changed unless every check passes.
func (b *Board) PlaceShip(ship *Ship, x, y int, o Orientation) error {
	if ship == nil {
		return ErrInvalidShip
	}
	if !o.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, o)
	}
	if err := b.checkCoords(x, y); err != nil {
		return err
	}
	if o == Horizontal && x+ship.Length() > b.size {
		return fmt.Errorf("%w: length %d at x=%d on size %d", ErrOutOfBoundsHorizontal, ship.Length(), x, b.size)
	}
	if o == Vertical && y+ship.Length() > b.size {
		return fmt.Errorf("%w: length %d at y=%d on size %d", ErrOutOfBoundsVertical, ship.Length(), y, b.size)
	}

	footprint := Footprint(ship.Length(), x, y, o)
	for _, c := range footprint {
		if b.cells[c.Y][c.X].ship != nil {
			return fmt.Errorf("%w: at (%d, %d)", ErrOverlappingShip, c.X, c.Y)
		}
	}

	for _, c := range footprint {
		b.cells[c.Y][c.X].ship = ship
		b.cells[c.Y][c.X].status = CellShip
	}
	if !b.hasShip(ship) {
		b.ships = append(b.ships, ship)
	}
	return nil
}

func (b *Board) hasShip(ship *Ship) bool {
	for _, s := range b.ships {
		if s == ship {
			return true
		}
	}
	return false
}

// ReceiveAttack resolves a shot at (x, y).
func (b *Board) ReceiveAttack(x, y int) (AttackResult, error) {
	if err := b.checkCoords(x, y); err != nil {
		return AttackResult{}, err
	}
	c := &b.cells[y][x]
	if c.isHit {
		return AttackResult{}, fmt.Errorf("%w: (%d, %d)", ErrAlreadyAttacked, x, y)
	}

	c.isHit = true
	at := Coord{X: x, Y: y}
	if c.ship == nil {
		c.status = CellMiss
		b.misses = append(b.misses, at)
		return AttackResult{Result: OutcomeMiss, Coordinates: at}, nil
	}

	c.ship.Hit()
	c.status = CellHit
	b.hits = append(b.hits, at)
	sunk := c.ship.IsSunk()
	result := AttackResult{Result: OutcomeHit, ShipSunk: &sunk, Coordinates: at}
	if sunk {
		result.SunkType = c.ship.Type()
	}
	return result, nil
}

// MissedAttacks returns the misses in the order they happened.
func (b *Board) MissedAttacks() []Coord {
	return append([]Coord(nil), b.misses...)
}

// Hits returns the hits in the order they happened.
func (b *Board) Hits() []Coord {
	return append([]Coord(nil), b.hits...)
}

// AllAttacks returns every attacked coordinate.
func (b *Board) AllAttacks() map[Coord]struct{} {
	all := make(map[Coord]struct{}, len(b.hits)+len(b.misses))
	for _, c := range b.hits {
		all[c] = struct{}{}
	}
	for _, c := range b.misses {
		all[c] = struct{}{}
	}
	return all
}

// HasBeenAttacked reports whether (x, y) was hit or missed.
// Out-of-range coordinates report false.
func (b *Board) HasBeenAttacked(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	s := b.cells[y][x].status
	return s == CellHit || s == CellMiss
}

// AttackCount returns the number of successful attacks received.
func (b *Board) AttackCount() int {
	return len(b.hits) + len(b.misses)
}

// AreAllShipsSunk reports whether a non-empty fleet is entirely sunk.
func (b *Board) AreAllShipsSunk() bool {
	if len(b.ships) == 0 {
		return false
	}
	for _, s := range b.ships {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

// AllShipsPlaced compares occupied cells against the manifest total.
func (b *Board) AllShipsPlaced() PlacementStatus {
	placed := 0
	for y := range b.cells {
		for x := range b.cells[y] {
			if b.cells[y][x].ship != nil {
				placed++
			}
		}
	}
	return PlacementStatus{
		AllPlaced: placed == b.manifest.Total(),
		Placed:    placed,
	}
}

// Cells returns a size×size copy of the grid, indexed [y][x].
func (b *Board) Cells() [][]CellView {
	view := make([][]CellView, b.size)
	for y := range b.cells {
		view[y] = make([]CellView, b.size)
		for x, c := range b.cells[y] {
			view[y][x] = CellView{Ship: c.ship != nil, Status: c.status}
		}
	}
	return view
}

// Ships returns the state of every placed ship in placement order.
func (b *Board) Ships() []ShipState {
	states := make([]ShipState, len(b.ships))
	for i, s := range b.ships {
		states[i] = s.State()
	}
	return states
}

// ShipsRemaining returns how many placed ships are still afloat.
func (b *Board) ShipsRemaining() int {
	n := 0
	for _, s := range b.ships {
		if !s.IsSunk() {
			n++
		}
	}
	return n
}
