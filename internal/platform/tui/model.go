package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
	"github.com/vovakirdan/tui-battleship/internal/skirmish"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

// GameModel runs a local game against the computer on a fixed tick.
type GameModel struct {
	game       *skirmish.Controller
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	saved      bool // Whether the finished game has been recorded
	saveErr    error
	gen        uint64
}

// NewGameModel creates a model for one local game. store may be nil.
func NewGameModel(cfg config.BattleshipConfig, store *storage.Store, rc core.RuntimeConfig, opts ...skirmish.Option) GameModel {
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate > 0 {
		rc.TickRate = cfg.TickRate
	}

	game := skirmish.New(cfg, skirmish.NewBoardRenderer(), opts...)
	game.Reset(rc)

	return GameModel{
		game:       game,
		screen:     core.NewScreen(rc.ScreenW, rc.ScreenH),
		store:      store,
		config:     rc,
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
		keyMapper:  NewKeyMapper(),
		gen:        nextTickGen(),
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.saved = false
		m.saveErr = nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if m.gameState.GameOver && !m.saved {
		m.saveErr = m.saveResult()
		m.saved = true
	}

	return m, tickCmd(m.config.TickRate, m.gen)
}

// saveResult records the finished game in the match history.
func (m GameModel) saveResult() error {
	if m.store == nil {
		return nil
	}
	res, ok := m.game.Result()
	if !ok {
		return nil
	}

	rec := storage.MatchRecord{
		MatchID:      uuid.NewString(),
		Mode:         string(multiplayer.MatchModeVsCPU),
		Player1:      res.Player,
		Player2:      res.Opponent,
		Winner:       res.Opponent,
		Score1:       res.Sunk,
		Score2:       res.OpponentSunk,
		Shots1:       res.Shots,
		Shots2:       res.OpponentShots,
		EndReason:    multiplayer.MatchEndReasonCompleted.String(),
		DurationSecs: int(res.Duration / time.Second),
	}
	if res.Won {
		rec.Winner = res.Player
	}
	_, err := m.store.SaveMatch(rec)
	return err
}

// saveScreenshot writes the current frame as plain text.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".battleship", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("battleship_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.saveErr != nil {
		m.screen.DrawTextCentered(1, "Could not record result: "+m.saveErr.Error(), core.ColorWarning)
	}
	return RenderScreen(m.screen)
}

// State returns the game state as of the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
