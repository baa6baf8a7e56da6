package battleship

import (
	"fmt"
	"time"
)

// Slot identifies one of the two seats in a game.
type Slot int

const (
	Slot1 Slot = iota
	Slot2
)

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	if s == Slot1 {
		return Slot2
	}
	return Slot1
}

func (s Slot) String() string {
	if s == Slot1 {
		return "player1"
	}
	return "player2"
}

// State is the lifecycle stage of a game.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateOver
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateInProgress:
		return "in progress"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// PlayerSpec names a seat before the game is initialised.
type PlayerSpec struct {
	Name string
	Kind PlayerKind
}

// Config controls how InitGame builds a game.
type Config struct {
	BoardSize int
	Manifest  Manifest // StandardFleet if nil
	Players   [2]PlayerSpec

	// Placer positions each fleet. If nil, a RandomPlacer seeded with Seed
	// is used, honouring ShipValidation and MaxPlacementAttempts.
	Placer               Placer
	Seed                 int64
	ShipValidation       ValidationMode
	MaxPlacementAttempts int
}

// DefaultConfig returns a human-vs-computer game on a standard board.
func DefaultConfig() Config {
	return Config{
		BoardSize: DefaultBoardSize,
		Players: [2]PlayerSpec{
			{Name: "Player", Kind: Human},
			{Name: "Computer", Kind: Computer},
		},
		MaxPlacementAttempts: DefaultMaxPlacementAttempts,
	}
}

// Game runs a two-player match. Attack and SwitchTurn are independent;
// TakeTurn pairs them.
type Game struct {
	cfg     Config
	players [2]*Player
	current Slot
	state   State
	score   [2]int
}

// NewGame returns an unstarted game. Call InitGame before playing.
func NewGame(cfg Config) *Game {
	return &Game{cfg: cfg}
}

// InitGame builds both boards, places both fleets and seats both players.
// Any previous state is discarded. On failure the game is left unstarted.
func (g *Game) InitGame() (Snapshot, error) {
	g.players = [2]*Player{}
	g.state = StateNotStarted
	g.current = Slot1
	g.score = [2]int{}

	manifest := g.cfg.Manifest
	if manifest == nil {
		manifest = StandardFleet()
	}
	if g.cfg.BoardSize < 1 || !manifest.FitsOn(g.cfg.BoardSize) {
		return Snapshot{}, fmt.Errorf("battleship: init game: %w: size %d cannot hold fleet of %d cells",
			ErrInvalidBoard, g.cfg.BoardSize, manifest.Total())
	}

	placer := g.cfg.Placer
	if placer == nil {
		seed := g.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rp := NewRandomPlacer(seed)
		rp.MaxAttempts = g.cfg.MaxPlacementAttempts
		rp.Validation = g.cfg.ShipValidation
		placer = rp
	}

	var players [2]*Player
	for i, spec := range g.cfg.Players {
		board, err := NewBoard(g.cfg.BoardSize, manifest)
		if err != nil {
			return Snapshot{}, fmt.Errorf("battleship: init game: %w", err)
		}
		if err := placer.Place(board, manifest); err != nil {
			return Snapshot{}, fmt.Errorf("battleship: init game: place fleet for %s: %w", Slot(i), err)
		}
		if status := board.AllShipsPlaced(); !status.AllPlaced {
			return Snapshot{}, fmt.Errorf("battleship: init game: %w: %s fleet has %d of %d cells",
				ErrPlacementExhausted, Slot(i), status.Placed, manifest.Total())
		}
		players[i] = NewPlayer(spec.Name, spec.Kind, board)
	}

	g.players = players
	g.state = StateInProgress
	return g.Snapshot(), nil
}

// Attack fires the current player's shot at the opponent's board.
// The turn does not change.
func (g *Game) Attack(x, y int) (AttackResult, error) {
	if g.state != StateInProgress {
		return AttackResult{}, fmt.Errorf("%w: %s", ErrGameNotInProgress, g.state)
	}

	attacker := g.players[g.current]
	opponent := g.players[g.current.Other()]
	result, err := attacker.Attack(x, y, opponent.Board())
	if err != nil {
		return AttackResult{}, err
	}

	if result.Sunk() {
		g.score[g.current]++
	}
	if opponent.Board().AreAllShipsSunk() {
		g.state = StateOver
	}
	return result, nil
}

// SwitchTurn hands the turn to the other player.
func (g *Game) SwitchTurn() {
	if g.state == StateNotStarted {
		return
	}
	g.current = g.current.Other()
}

// TakeTurn attacks and, unless the attack ended the game, passes the turn.
// A rejected attack keeps the turn with the current player.
func (g *Game) TakeTurn(x, y int) (AttackResult, error) {
	result, err := g.Attack(x, y)
	if err != nil {
		return AttackResult{}, err
	}
	if g.state != StateOver {
		g.SwitchTurn()
	}
	return result, nil
}

// IsGameOver reports whether one fleet has been sunk.
func (g *Game) IsGameOver() bool { return g.state == StateOver }

// State returns the lifecycle stage.
func (g *Game) State() State { return g.state }

// CurrentSlot returns the slot whose turn it is.
func (g *Game) CurrentSlot() Slot { return g.current }

// CurrentPlayer returns the player whose turn it is, or nil before InitGame.
func (g *Game) CurrentPlayer() *Player { return g.players[g.current] }

// Player returns the player in slot s, or nil before InitGame.
func (g *Game) Player(s Slot) *Player { return g.players[s] }

// Players returns both players in slot order.
func (g *Game) Players() [2]*Player { return g.players }

// Score returns the number of ships each slot has sunk.
func (g *Game) Score() [2]int { return g.score }

// Winner returns the slot that sank the opposing fleet.
func (g *Game) Winner() (Slot, bool) {
	if g.state != StateOver {
		return 0, false
	}
	for _, s := range []Slot{Slot1, Slot2} {
		if g.players[s.Other()].Board().AreAllShipsSunk() {
			return s, true
		}
	}
	return 0, false
}

// PlayerSnapshot is a copy of one seat's visible state.
type PlayerSnapshot struct {
	Name           string       `json:"name"`
	Kind           PlayerKind   `json:"kind"`
	Cells          [][]CellView `json:"cells"`
	Ships          []ShipState  `json:"ships"`
	ShipsRemaining int          `json:"shipsRemaining"`
	Hits           int          `json:"hits"`
	Misses         int          `json:"misses"`
}

// Snapshot is a copy of the whole game, safe to hand to other goroutines.
type Snapshot struct {
	State     State             `json:"state"`
	Current   Slot              `json:"current"`
	Players   [2]PlayerSnapshot `json:"players"`
	Score     [2]int            `json:"score"`
	Winner    Slot              `json:"winner"`
	HasWinner bool              `json:"hasWinner"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		State:   g.state,
		Current: g.current,
		Score:   g.score,
	}
	snap.Winner, snap.HasWinner = g.Winner()
	for i, p := range g.players {
		if p == nil {
			continue
		}
		b := p.Board()
		snap.Players[i] = PlayerSnapshot{
			Name:           p.Name(),
			Kind:           p.Kind(),
			Cells:          b.Cells(),
			Ships:          b.Ships(),
			ShipsRemaining: b.ShipsRemaining(),
			Hits:           len(b.hits),
			Misses:         len(b.misses),
		}
	}
	return snap
}

// Masked returns a copy of s as seen from viewer: the opponent's unhit ship
// cells read as empty water.
func (s Snapshot) Masked(viewer Slot) Snapshot {
	out := s
	opp := s.Players[viewer.Other()]
	cells := make([][]CellView, len(opp.Cells))
	for y, row := range opp.Cells {
		cells[y] = make([]CellView, len(row))
		for x, c := range row {
			if c.Status == CellShip {
				c = CellView{Status: CellEmpty}
			}
			cells[y][x] = c
		}
	}
	opp.Cells = cells
	out.Players[viewer.Other()] = opp
	return out
}
