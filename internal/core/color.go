package core

// Color is a semantic foreground color for a screen cell. The platform
// layer maps each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWater
	ColorShip
	ColorHit
	ColorMiss
	ColorSunk
	ColorCursor
	ColorTitle
	ColorMuted
	ColorAccent
	ColorWarning
)

// Cell is one character position on a Screen.
type Cell struct {
	Rune  rune
	Color Color
}
