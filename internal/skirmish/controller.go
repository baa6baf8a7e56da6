// Package skirmish runs a local game against the computer on the
// fixed-tick Game contract the terminal platform drives.
package skirmish

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/core"
)

const (
	human = battleship.Slot1
	cpu   = battleship.Slot2
)

// View is everything a Renderer needs for one frame. Snapshot is already
// masked for Viewer.
type View struct {
	Snapshot   battleship.Snapshot
	Viewer     battleship.Slot
	Cursor     core.Point
	Status     string
	CPUPending bool
	Paused     bool
	SetupError error
}

// Renderer draws a View into a screen buffer.
type Renderer interface {
	Render(dst *core.Screen, v View)
}

// Result summarises a finished game for the match history.
type Result struct {
	Player   string
	Opponent string
	Won      bool
	Shots    int // Successful human attacks
	Hits     int
	Sunk     int

	OpponentShots int
	OpponentSunk  int
	Duration      time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithPlacer overrides random fleet placement.
func WithPlacer(p battleship.Placer) Option {
	return func(c *Controller) { c.placer = p }
}

// Controller implements core.Game for a human-versus-computer match.
type Controller struct {
	cfg      config.BattleshipConfig
	renderer Renderer
	placer   battleship.Placer

	runtime core.RuntimeConfig
	game    *battleship.Game
	rng     *rand.Rand

	cursor       core.Point
	cpuCountdown int // Ticks until the computer fires; 0 when idle
	cpuPending   bool
	paused       bool
	status       string
	setupErr     error

	tick  uint64
	shots int
	hits  int
}

// New creates a controller. Call Reset before the first Step.
func New(cfg config.BattleshipConfig, r Renderer, opts ...Option) *Controller {
	c := &Controller{cfg: cfg, renderer: r}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset starts a fresh game, cancelling any pending computer move.
func (c *Controller) Reset(rc core.RuntimeConfig) {
	c.runtime = rc
	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c.rng = rand.New(rand.NewSource(seed))

	c.cpuCountdown = 0
	c.cpuPending = false
	c.paused = false
	c.setupErr = nil
	c.tick = 0
	c.shots = 0
	c.hits = 0

	gc, err := c.cfg.GameConfig(c.rng.Int63())
	if err == nil {
		if c.placer != nil {
			gc.Placer = c.placer
		}
		c.game = battleship.NewGame(gc)
		_, err = c.game.InitGame()
	}
	if err != nil {
		c.setupErr = err
		c.status = "Setup failed: " + err.Error()
		return
	}

	mid := c.cfg.Board.Size / 2
	c.cursor = core.Point{X: mid, Y: mid}
	c.status = "Your turn. Pick a target in enemy waters."
}

// Step advances one tick.
func (c *Controller) Step(in core.InputFrame) core.StepResult {
	c.tick++
	shots := 0

	if in.Has(core.ActionRestart) {
		rc := c.runtime
		rc.Seed = c.rng.Int63()
		c.Reset(rc)
		return core.StepResult{State: c.State()}
	}
	if c.setupErr != nil {
		return core.StepResult{State: c.State()}
	}

	if in.Has(core.ActionPause) && !c.game.IsGameOver() {
		c.paused = !c.paused
	}
	if c.paused || c.game.IsGameOver() {
		return core.StepResult{State: c.State()}
	}

	c.moveCursor(in)

	if c.cpuPending {
		if c.cpuCountdown > 0 {
			c.cpuCountdown--
		}
		if c.cpuCountdown == 0 {
			c.cpuPending = false
			c.cpuFire()
			shots++
		}
		return core.StepResult{State: c.State(), Shots: shots}
	}

	if in.Has(core.ActionFire) {
		if c.humanFire() {
			shots++
			if !c.game.IsGameOver() && c.cfg.CPU.DelayTicks == 0 {
				c.cpuPending = false
				c.cpuFire()
				shots++
			}
		}
	}

	return core.StepResult{State: c.State(), Shots: shots}
}

func (c *Controller) moveCursor(in core.InputFrame) {
	dx, dy := in.CursorDelta()
	size := c.cfg.Board.Size
	c.cursor.X = core.Wrap(c.cursor.X+dx, size)
	c.cursor.Y = core.Wrap(c.cursor.Y+dy, size)
}

// humanFire attacks the cell under the cursor and schedules the reply.
func (c *Controller) humanFire() bool {
	result, err := c.game.TakeTurn(c.cursor.X, c.cursor.Y)
	if err != nil {
		c.status = describeError(err, c.cursor)
		return false
	}

	c.shots++
	if result.Result == battleship.OutcomeHit {
		c.hits++
	}
	c.status = "You " + describeResult(result)

	if c.game.IsGameOver() {
		c.status += " Enemy fleet destroyed. You win! Press R to play again."
		return true
	}
	c.cpuPending = true
	c.cpuCountdown = c.cfg.CPU.DelayTicks
	return true
}

// cpuFire plays the computer's turn at a random unattacked cell.
func (c *Controller) cpuFire() {
	p := c.game.CurrentPlayer()
	target, err := p.ValidCoordinates(c.game.Player(human).Board(), c.rng)
	if err != nil {
		c.status = "Computer cannot fire: " + err.Error()
		return
	}

	result, err := c.game.TakeTurn(target.X, target.Y)
	if err != nil {
		c.status = "Computer cannot fire: " + err.Error()
		return
	}

	c.status = p.Name() + " " + describeResult(result)
	if c.game.IsGameOver() {
		c.status += " Your fleet is lost. Press R to try again."
		return
	}
	c.status += " Your turn."
}

// Render draws the current frame through the injected renderer.
func (c *Controller) Render(dst *core.Screen) {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(dst, c.View())
}

// View returns the current frame data.
func (c *Controller) View() View {
	v := View{
		Viewer:     human,
		Cursor:     c.cursor,
		Status:     c.status,
		CPUPending: c.cpuPending,
		Paused:     c.paused,
		SetupError: c.setupErr,
	}
	if c.game != nil {
		v.Snapshot = c.game.Snapshot().Masked(human)
	}
	return v
}

// State implements core.Game.
func (c *Controller) State() core.GameState {
	st := core.GameState{Paused: c.paused, Status: c.status}
	if c.setupErr != nil || c.game == nil {
		return st
	}
	st.Score = c.game.Score()[human]
	st.GameOver = c.game.IsGameOver()
	if winner, ok := c.game.Winner(); ok {
		st.Won = winner == human
	}
	return st
}

// Result reports the outcome once the game is over.
func (c *Controller) Result() (Result, bool) {
	if c.game == nil || !c.game.IsGameOver() {
		return Result{}, false
	}
	winner, _ := c.game.Winner()
	tickRate := max(c.runtime.TickRate, 1)
	return Result{
		Player:   c.game.Player(human).Name(),
		Opponent: c.game.Player(cpu).Name(),
		Won:      winner == human,
		Shots:    c.shots,
		Hits:     c.hits,
		Sunk:     c.game.Score()[human],

		OpponentShots: c.game.Player(human).Board().AttackCount(),
		OpponentSunk:  c.game.Score()[cpu],
		Duration:      time.Duration(c.tick) * time.Second / time.Duration(tickRate),
	}, true
}

func describeResult(r battleship.AttackResult) string {
	at := CoordLabel(r.Coordinates.X, r.Coordinates.Y)
	switch {
	case r.Sunk():
		return fmt.Sprintf("sank the %s at %s!", r.SunkType, at)
	case r.Result == battleship.OutcomeHit:
		return fmt.Sprintf("hit at %s.", at)
	default:
		return fmt.Sprintf("missed at %s.", at)
	}
}

func describeError(err error, at core.Point) string {
	switch {
	case errors.Is(err, battleship.ErrAlreadyAttacked):
		return fmt.Sprintf("%s was already attacked. Pick another target.", CoordLabel(at.X, at.Y))
	case errors.Is(err, battleship.ErrInvalidCoordinates):
		return "That target is off the board."
	default:
		return "Cannot fire: " + err.Error()
	}
}

// CoordLabel formats a cell as a column letter and a 1-based row, e.g. "C7".
func CoordLabel(x, y int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(x), y+1)
}
