package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenGame
	screenLobby
	screenMatch
	screenScores
)

// SessionOptions configures a SessionModel. Coordinator and Session are
// both nil for offline play.
type SessionOptions struct {
	Config      config.BattleshipConfig
	Store       *storage.Store
	Runtime     core.RuntimeConfig
	PlayerName  string // Overrides Config.Player.Name when set
	Coordinator Sender
	Session     *multiplayer.ChannelSession
}

// SessionModel manages one player's flow: menu, local game, online lobby,
// online match and match history.
type SessionModel struct {
	opts    SessionOptions
	runtime core.RuntimeConfig
	current screenKind

	menu   MenuModel
	game   GameModel
	lobby  OnlineLobbyModel
	match  OnlineMatchModel
	scores ScoreboardModel

	quitting bool
}

// NewSessionModel creates a session model showing the main menu.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.PlayerName != "" {
		opts.Config.Player.Name = opts.PlayerName
	}
	return SessionModel{
		opts:    opts,
		runtime: opts.Runtime,
		menu:    NewMenuModel(opts.online(), opts.Runtime.ScreenW, opts.Runtime.ScreenH),
	}
}

func (o SessionOptions) online() bool {
	return o.Coordinator != nil && o.Session != nil
}

// Init starts listening for coordinator events when online.
func (m SessionModel) Init() tea.Cmd {
	if m.opts.online() {
		return waitForEvent(m.opts.Session.Events())
	}
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height

	case sessionEventMsg:
		return m.handleSessionEvent(msg)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenMatch:
		return m.updateMatch(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// handleSessionEvent routes an event and keeps listening for the next one.
func (m SessionModel) handleSessionEvent(msg sessionEventMsg) (tea.Model, tea.Cmd) {
	next := waitForEvent(m.opts.Session.Events())

	var model tea.Model
	var cmd tea.Cmd
	switch m.current {
	case screenLobby:
		model, cmd = m.updateLobby(msg)
	case screenMatch:
		model, cmd = m.updateMatch(msg)
	default:
		// A match that started after the player walked away is forfeited.
		if started, ok := msg.event.(multiplayer.MatchStartedEvent); ok {
			m.opts.Coordinator.Send(multiplayer.LeaveMatchMsg{
				SessionID: m.opts.Session.ID(),
				MatchID:   started.MatchID,
			})
		}
		model = m
	}
	return model, tea.Batch(cmd, next)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	m.menu = newMenu.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	w, h := m.runtime.ScreenW, m.runtime.ScreenH
	switch selected.Choice {
	case ChoicePlayCPU:
		m.game = NewGameModel(m.opts.Config, m.opts.Store, m.runtime)
		m.current = screenGame
		return m, m.game.Init()

	case ChoiceHostOnline:
		var c tea.Cmd
		m.lobby, c = NewHostLobbyModel(m.opts.Coordinator, m.opts.Session.ID(), w, h)
		m.current = screenLobby
		return m, c

	case ChoiceJoinOnline:
		var c tea.Cmd
		m.lobby, c = NewJoinLobbyModel(m.opts.Coordinator, m.opts.Session.ID(), w, h)
		m.current = screenLobby
		return m, c

	case ChoiceScores:
		m.scores = NewScoreboardModel(m.opts.Store, w, h)
		m.current = screenScores
		return m, m.scores.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newGame, cmd := m.game.Update(msg)
	m.game = newGame.(GameModel)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.toMenu("")
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	m.lobby = newLobby.(OnlineLobbyModel)

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.lobby.BackToMenu() {
		return m.toMenu("")
	}
	if started, ok := m.lobby.Started(); ok {
		m.match = NewOnlineMatchModel(m.opts.Coordinator, m.opts.Session.ID(), started, m.runtime.ScreenW, m.runtime.ScreenH)
		m.current = screenMatch
		return m, tea.Batch(cmd, m.match.Init())
	}
	return m, cmd
}

func (m SessionModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMatch, cmd := m.match.Update(msg)
	m.match = newMatch.(OnlineMatchModel)

	if m.match.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.match.BackToMenu() {
		notice := ""
		if ended, ok := m.match.Ended(); ok {
			notice = "Last match: " + ended.Reason.String()
		}
		return m.toMenu(notice)
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	m.scores = newScores.(ScoreboardModel)

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu("")
	}
	return m, cmd
}

func (m SessionModel) toMenu(notice string) (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.online(), m.runtime.ScreenW, m.runtime.ScreenH).WithNotice(notice)
	m.current = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenLobby:
		return m.lobby.View()
	case screenMatch:
		return m.match.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// DefaultRuntime returns the runtime config for a local terminal of size w x h.
func DefaultRuntime(game config.BattleshipConfig, w, h int, seed int64) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w > 0 && h > 0 {
		rc.ScreenW, rc.ScreenH = w, h
	}
	if game.TickRate > 0 {
		rc.TickRate = game.TickRate
	}
	rc.Seed = seed
	return rc
}

// Run starts an offline session in the current terminal.
func Run(opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
