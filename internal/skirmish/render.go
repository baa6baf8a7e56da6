package skirmish

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/core"
)

const (
	cellWidth = 2 // Each board cell is a glyph plus a space
	labelW    = 3 // Row number column
	gridGap   = 6
)

// Glyphs used for board cells.
const (
	GlyphWater  = '·'
	GlyphShip   = '■'
	GlyphHit    = 'X'
	GlyphMiss   = 'o'
	GlyphCursor = '+'
)

// BoardRenderer draws both boards side by side with a fleet panel and a
// status line underneath.
type BoardRenderer struct {
	Title string
	Help  string
}

// NewBoardRenderer returns the renderer used for local play.
func NewBoardRenderer() *BoardRenderer {
	return &BoardRenderer{
		Title: "BATTLESHIP",
		Help:  "←↑↓→ aim · space fire · p pause · r restart · esc menu",
	}
}

// Size returns the screen size needed for a board of the given side.
func (r *BoardRenderer) Size(boardSize int) (w, h int) {
	gridW := labelW + boardSize*cellWidth
	return gridW*2 + gridGap + 2, boardSize + 14
}

// Render implements Renderer.
func (r *BoardRenderer) Render(dst *core.Screen, v View) {
	dst.DrawTextCentered(0, r.Title, core.ColorTitle)

	if v.SetupError != nil {
		y := dst.Height()/2 - 1
		dst.DrawTextCentered(y, "Setup failed", core.ColorWarning)
		for i, line := range wrapText(v.SetupError.Error(), dst.Width()-2) {
			dst.DrawTextCentered(y+1+i, line, core.ColorMuted)
		}
		return
	}

	snap := v.Snapshot
	size := len(snap.Players[v.Viewer].Cells)
	if size == 0 {
		return
	}

	needW, needH := r.Size(size)
	if dst.Width() < needW || dst.Height() < needH {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Terminal too small (need %dx%d)", needW, needH), core.ColorWarning)
		return
	}

	gridW := labelW + size*cellWidth
	left := (dst.Width() - (gridW*2 + gridGap)) / 2
	right := left + gridW + gridGap
	top := 2

	own := snap.Players[v.Viewer]
	enemy := snap.Players[v.Viewer.Other()]
	dst.DrawTextColored(left, top, "Your fleet: "+own.Name, core.ColorAccent)
	dst.DrawTextColored(right, top, "Enemy waters: "+enemy.Name, core.ColorAccent)

	DrawGrid(dst, left, top+1, own.Cells, nil)
	cursor := v.Cursor
	DrawGrid(dst, right, top+1, enemy.Cells, &cursor)

	panelY := top + size + 3
	drawFleetPanel(dst, left, panelY, own.Ships, true)
	drawFleetPanel(dst, right, panelY, enemy.Ships, false)

	statusY := dst.Height() - 3
	dst.DrawHLine(left, statusY-1, gridW*2+gridGap, '─', core.ColorMuted)
	status := v.Status
	switch {
	case v.Paused:
		status = "Paused. Press P to resume."
	case v.CPUPending:
		status = strings.TrimSpace(status + " " + enemy.Name + " is aiming...")
	}
	dst.DrawTextCentered(statusY, status, statusColor(snap, v))
	dst.DrawTextCentered(statusY+1, fmt.Sprintf("Target %s   Sunk %d", CoordLabel(v.Cursor.X, v.Cursor.Y), snap.Score[v.Viewer]), core.ColorMuted)
	dst.DrawTextCentered(dst.Height()-1, r.Help, core.ColorMuted)
}

func statusColor(snap battleship.Snapshot, v View) core.Color {
	if snap.HasWinner {
		if snap.Winner == v.Viewer {
			return core.ColorAccent
		}
		return core.ColorHit
	}
	if v.Paused || v.CPUPending {
		return core.ColorMuted
	}
	return core.ColorDefault
}

// DrawGrid draws a labelled board at (x, y). The cursor, if any, is drawn
// over the cell it points at.
func DrawGrid(dst *core.Screen, x, y int, cells [][]battleship.CellView, cursor *core.Point) {
	for col := range cells {
		dst.DrawTextColored(x+labelW+col*cellWidth, y, string(rune('A'+col)), core.ColorMuted)
	}
	for row, line := range cells {
		dst.DrawTextColored(x, y+1+row, fmt.Sprintf("%2d", row+1), core.ColorMuted)
		for col, cell := range line {
			glyph, color := CellGlyph(cell)
			if cursor != nil && cursor.X == col && cursor.Y == row {
				color = core.ColorCursor
				if cell.Status == battleship.CellEmpty {
					glyph = GlyphCursor
				}
			}
			dst.SetColored(x+labelW+col*cellWidth, y+1+row, glyph, color)
		}
	}
}

// CellGlyph maps a cell to its glyph and color.
func CellGlyph(c battleship.CellView) (rune, core.Color) {
	switch c.Status {
	case battleship.CellShip:
		return GlyphShip, core.ColorShip
	case battleship.CellHit:
		return GlyphHit, core.ColorHit
	case battleship.CellMiss:
		return GlyphMiss, core.ColorMiss
	default:
		return GlyphWater, core.ColorWater
	}
}

// drawFleetPanel lists ships. The opponent's ships only show whether they
// are afloat.
func drawFleetPanel(dst *core.Screen, x, y int, ships []battleship.ShipState, detailed bool) {
	for i, s := range ships {
		name := fmt.Sprintf("%-10s", s.Type)
		if !detailed {
			state, color := "afloat", core.ColorDefault
			if s.Sunk {
				state, color = "sunk", core.ColorSunk
			}
			dst.DrawTextColored(x, y+i, name+" "+state, color)
			continue
		}

		color := core.ColorDefault
		if s.Sunk {
			color = core.ColorSunk
		}
		dst.DrawTextColored(x, y+i, name, color)
		for j := range s.Length {
			glyph, c := GlyphShip, core.ColorShip
			if j < s.Hits {
				glyph, c = GlyphHit, core.ColorHit
			}
			dst.SetColored(x+11+j, y+i, glyph, c)
		}
	}
}

// wrapText splits text into lines of at most width runes, breaking at
// spaces where possible.
func wrapText(text string, width int) []string {
	if width < 1 {
		return nil
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
