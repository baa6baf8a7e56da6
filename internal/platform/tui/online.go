package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
	"github.com/vovakirdan/tui-battleship/internal/skirmish"
)

// Sender is the part of the coordinator the online screens use.
type Sender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// sessionEventMsg wraps an event read from the session's channel.
type sessionEventMsg struct {
	event multiplayer.SessionEvent
}

// sessionClosedMsg is sent when the session's event channel closes.
type sessionClosedMsg struct{}

// waitForEvent returns a command that blocks on the next session event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionEventMsg{event: evt}
	}
}

// OnlineState represents the current state of the matchmaking flow.
type OnlineState int

const (
	OnlineStateHostCreating  OnlineState = iota // Waiting for the lobby code
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting for the coordinator's answer
	OnlineStateMatchStarted                     // Handing off to the match screen
)

// OnlineLobbyModel handles hosting and joining a lobby.
type OnlineLobbyModel struct {
	state     OnlineState
	width     int
	height    int
	sender    Sender
	sessionID multiplayer.SessionID

	lobbyCode string
	codeInput textinput.Model
	lobbyErr  string

	started    multiplayer.MatchStartedEvent
	backToMenu bool
	quitting   bool
}

// NewHostLobbyModel asks the coordinator for a new lobby.
func NewHostLobbyModel(sender Sender, sessionID multiplayer.SessionID, width, height int) (OnlineLobbyModel, tea.Cmd) {
	m := OnlineLobbyModel{
		state:     OnlineStateHostCreating,
		width:     width,
		height:    height,
		sender:    sender,
		sessionID: sessionID,
	}
	sender.Send(multiplayer.CreateLobbyMsg{SessionID: sessionID})
	return m, nil
}

// NewJoinLobbyModel prompts for a join code.
func NewJoinLobbyModel(sender Sender, sessionID multiplayer.SessionID, width, height int) (OnlineLobbyModel, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = 6
	ti.Width = 8
	ti.Validate = validateJoinCode
	ti.Prompt = "> "

	m := OnlineLobbyModel{
		state:     OnlineStateJoinEnterCode,
		width:     width,
		height:    height,
		sender:    sender,
		sessionID: sessionID,
		codeInput: ti,
	}
	cmd := m.codeInput.Focus()
	return m, cmd
}

func validateJoinCode(s string) error {
	for _, r := range strings.ToUpper(s) {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return errors.New("codes use only letters and digits")
		}
	}
	return nil
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sessionEventMsg:
		return m.handleEvent(msg.event)
	}

	if m.state == OnlineStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m OnlineLobbyModel) handleEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = e.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyErrorEvent:
		m.lobbyErr = e.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
			cmd := m.codeInput.Focus()
			return m, cmd
		case OnlineStateHostWaiting:
			// The match could not be created; the lobby is gone.
			m.lobbyCode = ""
			m.state = OnlineStateHostCreating
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.lobbyErr = "Opponent left before the match started"
	case multiplayer.MatchStartedEvent:
		m.started = e
		m.state = OnlineStateMatchStarted
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.cancel()
		m.backToMenu = true
		return m, nil
	}

	switch m.state {
	case OnlineStateHostCreating, OnlineStateHostWaiting:
		if msg.String() == "q" {
			m.cancel()
			m.quitting = true
			return m, tea.Quit
		}
	case OnlineStateJoinEnterCode:
		if msg.Type == tea.KeyEnter {
			code := multiplayer.NormalizeCode(m.codeInput.Value())
			if len(code) == 0 {
				return m, nil
			}
			m.state = OnlineStateJoinWaiting
			m.lobbyErr = ""
			m.codeInput.Blur()
			m.sender.Send(multiplayer.JoinLobbyMsg{SessionID: m.sessionID, Code: code})
			return m, nil
		}
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cancel closes a hosted lobby.
func (m OnlineLobbyModel) cancel() {
	if m.lobbyCode != "" && m.state == OnlineStateHostWaiting {
		m.sender.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	}
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateHostCreating:
		lines = []string{"HOSTING GAME", "", "Creating lobby..."}
	case OnlineStateHostWaiting:
		lines = []string{
			"HOSTING GAME", "",
			"Share this code with your opponent:", "",
			fmt.Sprintf("[ %s ]", m.lobbyCode), "",
			"Waiting for player to join...",
		}
	case OnlineStateJoinEnterCode:
		lines = []string{"JOIN GAME", "", "Enter the game code:", "", m.codeInput.View()}
	case OnlineStateJoinWaiting:
		lines = []string{"CONNECTING", "", "Joining " + multiplayer.NormalizeCode(m.codeInput.Value()) + "..."}
	case OnlineStateMatchStarted:
		lines = []string{"MATCH STARTING", "", "Opponent: " + m.started.Opponent}
	}

	if m.lobbyErr != "" {
		lines = append(lines, "", "Error: "+m.lobbyErr)
	}
	lines = append(lines, "", menuHelpStyle.Render("Esc: Back  |  Ctrl+C: Quit"))

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState { return m.state }

// LobbyCode returns the hosted lobby's code, empty until it exists.
func (m OnlineLobbyModel) LobbyCode() string { return m.lobbyCode }

// Started returns the match announcement once the match has begun.
func (m OnlineLobbyModel) Started() (multiplayer.MatchStartedEvent, bool) {
	return m.started, m.state == OnlineStateMatchStarted
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool { return m.backToMenu }

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool { return m.quitting }

// OnlineMatchModel plays one online match. It is event driven: the board
// is redrawn from each snapshot the match sends.
type OnlineMatchModel struct {
	sender    Sender
	sessionID multiplayer.SessionID
	matchID   multiplayer.MatchID
	side      multiplayer.PlayerID
	opponent  string

	renderer *skirmish.BoardRenderer
	screen   *core.Screen
	keys     *KeyMapper

	snapshot     battleship.Snapshot
	haveSnapshot bool
	yourTurn     bool
	cursor       core.Point
	status       string
	ended        *multiplayer.MatchEndedEvent
	confirmLeave bool

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the match screen for a started match.
func NewOnlineMatchModel(sender Sender, sessionID multiplayer.SessionID, started multiplayer.MatchStartedEvent, width, height int) OnlineMatchModel {
	r := skirmish.NewBoardRenderer()
	r.Title = "BATTLESHIP ONLINE"
	r.Help = "←↑↓→ aim · space fire · esc forfeit"

	return OnlineMatchModel{
		sender:    sender,
		sessionID: sessionID,
		matchID:   started.MatchID,
		side:      started.Side,
		opponent:  started.Opponent,
		renderer:  r,
		screen:    core.NewScreen(width, height),
		keys:      NewKeyMapper(),
		status:    "Match found against " + started.Opponent + ". Placing fleets...",
	}
}

// Init initializes the match model.
func (m OnlineMatchModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case sessionEventMsg:
		m.handleEvent(msg.event)
		return m, nil
	}
	return m, nil
}

func (m *OnlineMatchModel) handleEvent(evt multiplayer.SessionEvent) {
	switch e := evt.(type) {
	case multiplayer.SnapshotEvent:
		if e.MatchID != m.matchID {
			return
		}
		if !m.haveSnapshot {
			mid := len(e.Snapshot.Players[e.Side].Cells) / 2
			m.cursor = core.Point{X: mid, Y: mid}
		}
		m.snapshot = e.Snapshot
		m.haveSnapshot = true
		m.yourTurn = e.YourTurn
		m.status = m.describeSnapshot(e)

	case multiplayer.AttackRejectedEvent:
		if e.MatchID != m.matchID {
			return
		}
		m.status = e.Message

	case multiplayer.MatchEndedEvent:
		if e.MatchID != m.matchID {
			return
		}
		m.ended = &e
		m.yourTurn = false
		m.status = m.describeEnd(e) + " Press esc for the menu."
	}
}

func (m OnlineMatchModel) describeSnapshot(e multiplayer.SnapshotEvent) string {
	var b strings.Builder
	if e.Last != nil {
		who := "You"
		if e.LastBy != m.side {
			who = m.opponent
		}
		at := skirmish.CoordLabel(e.Last.Coordinates.X, e.Last.Coordinates.Y)
		switch {
		case e.Last.Sunk():
			fmt.Fprintf(&b, "%s sank the %s at %s! ", who, e.Last.SunkType, at)
		case e.Last.Result == battleship.OutcomeHit:
			fmt.Fprintf(&b, "%s hit at %s. ", who, at)
		default:
			fmt.Fprintf(&b, "%s missed at %s. ", who, at)
		}
	}
	if e.YourTurn {
		b.WriteString("Your turn.")
	}
	return strings.TrimSpace(b.String())
}

func (m OnlineMatchModel) describeEnd(e multiplayer.MatchEndedEvent) string {
	switch {
	case !e.HasWinner:
		return "Match over: " + e.Reason.String() + "."
	case e.Winner == m.side && e.Reason == multiplayer.MatchEndReasonCompleted:
		return "Enemy fleet destroyed. You win!"
	case e.Winner == m.side:
		return "You win: " + strings.ToLower(e.Reason.String()) + "."
	case e.Reason == multiplayer.MatchEndReasonCompleted:
		return "Your fleet is lost."
	default:
		return "You lose: " + strings.ToLower(e.Reason.String()) + "."
	}
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		if m.ended == nil {
			m.sender.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		}
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack {
		if m.ended != nil {
			m.backToMenu = true
			return m, nil
		}
		if !m.confirmLeave {
			m.confirmLeave = true
			m.status = "Press esc again to forfeit the match."
			return m, nil
		}
		m.sender.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		m.backToMenu = true
		return m, nil
	}
	m.confirmLeave = false

	if m.ended != nil || !m.haveSnapshot {
		return m, nil
	}

	size := len(m.snapshot.Players[m.side].Cells)
	var in core.InputFrame
	in.Set(action)
	dx, dy := in.CursorDelta()
	m.cursor.X = core.Wrap(m.cursor.X+dx, size)
	m.cursor.Y = core.Wrap(m.cursor.Y+dy, size)

	if action == core.ActionFire {
		if !m.yourTurn {
			m.status = "Wait for " + m.opponent + " to fire."
			return m, nil
		}
		m.sender.Send(multiplayer.AttackMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
			X:         m.cursor.X,
			Y:         m.cursor.Y,
		})
	}
	return m, nil
}

// View renders the boards from this player's side.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	if !m.haveSnapshot {
		m.screen.DrawTextCentered(m.screen.Height()/2, m.status, core.ColorMuted)
		return RenderScreen(m.screen)
	}

	m.renderer.Render(m.screen, skirmish.View{
		Snapshot:   m.snapshot,
		Viewer:     slotOf(m.side),
		Cursor:     m.cursor,
		Status:     m.status,
		CPUPending: !m.yourTurn && m.ended == nil,
	})
	return RenderScreen(m.screen)
}

func slotOf(p multiplayer.PlayerID) battleship.Slot {
	if p == multiplayer.Player1 {
		return battleship.Slot1
	}
	return battleship.Slot2
}

// Ended returns the end-of-match event once the match is over.
func (m OnlineMatchModel) Ended() (multiplayer.MatchEndedEvent, bool) {
	if m.ended == nil {
		return multiplayer.MatchEndedEvent{}, false
	}
	return *m.ended, true
}

// Cursor returns the targeted cell.
func (m OnlineMatchModel) Cursor() core.Point { return m.cursor }

// Status returns the status line.
func (m OnlineMatchModel) Status() string { return m.status }

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool { return m.backToMenu }

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool { return m.quitting }
