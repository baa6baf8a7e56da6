package battleship

// DefaultBoardSize is the side length of a standard board.
const DefaultBoardSize = 10

// ShipSpec describes one ship a complete fleet must contain.
type ShipSpec struct {
	Type   string `json:"type" yaml:"type"`
	Length int    `json:"length" yaml:"length"`
}

// Manifest is the ordered list of ships a complete fleet must contain.
type Manifest []ShipSpec

// StandardFleet returns the classic five-ship fleet (17 cells).
func StandardFleet() Manifest {
	return Manifest{
		{Type: "carrier", Length: 5},
		{Type: "battleship", Length: 4},
		{Type: "cruiser", Length: 3},
		{Type: "submarine", Length: 3},
		{Type: "destroyer", Length: 2},
	}
}

// Total returns the sum of all ship lengths.
func (m Manifest) Total() int {
	total := 0
	for _, s := range m {
		total += s.Length
	}
	return total
}

// Longest returns the length of the longest ship, or 0 for an empty manifest.
func (m Manifest) Longest() int {
	longest := 0
	for _, s := range m {
		longest = max(longest, s.Length)
	}
	return longest
}

// FitsOn reports whether the manifest could in principle be placed on a
// board of the given size.
func (m Manifest) FitsOn(size int) bool {
	return m.Longest() <= size && m.Total() <= size*size
}
