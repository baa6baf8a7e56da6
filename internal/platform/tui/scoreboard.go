package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-battleship/internal/storage"
)

const maxHistoryRows = 100

// ScoreboardTab selects what the history screen lists.
type ScoreboardTab int

const (
	TabRecentMatches ScoreboardTab = iota
	TabPlayerRecords
)

func (t ScoreboardTab) String() string {
	if t == TabPlayerRecords {
		return "Player records"
	}
	return "Recent matches"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists recorded matches and per-player records.
type ScoreboardModel struct {
	store     *storage.Store
	tab       ScoreboardTab
	matches   []storage.MatchRecord
	records   []storage.PlayerRecord
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard and loads its rows. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	return m
}

func (m *ScoreboardModel) load() {
	m.matches, m.records, m.loadErr = nil, nil, nil
	if m.store == nil {
		return
	}
	if m.matches, m.loadErr = m.store.RecentMatches(maxHistoryRows); m.loadErr != nil {
		return
	}
	m.records, m.loadErr = m.store.PlayerRecords(maxHistoryRows)
}

func (m *ScoreboardModel) columns() []table.Column {
	avail := max(m.width-8, 40)
	if m.tab == TabPlayerRecords {
		nameW := min(max(avail-44, 10), 24)
		return []table.Column{
			{Title: "Player", Width: nameW},
			{Title: "Games", Width: 6},
			{Title: "Wins", Width: 6},
			{Title: "Losses", Width: 7},
			{Title: "Win %", Width: 7},
			{Title: "Accuracy", Width: 9},
		}
	}
	nameW := min(max((avail-50)/2, 8), 16)
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Mode", Width: 7},
		{Title: "Player 1", Width: nameW},
		{Title: "Player 2", Width: nameW},
		{Title: "Sunk", Width: 5},
		{Title: "Winner", Width: nameW},
		{Title: "Ended", Width: 22},
	}
}

func (m *ScoreboardModel) rows() []table.Row {
	if m.tab == TabPlayerRecords {
		rows := make([]table.Row, len(m.records))
		for i, r := range m.records {
			winPct := 0.0
			if r.Games > 0 {
				winPct = float64(r.Wins) / float64(r.Games) * 100
			}
			rows[i] = table.Row{
				r.Name,
				fmt.Sprintf("%d", r.Games),
				fmt.Sprintf("%d", r.Wins),
				fmt.Sprintf("%d", r.Losses),
				fmt.Sprintf("%.0f%%", winPct),
				fmt.Sprintf("%.1f%%", r.Accuracy()*100),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		mode := "cpu"
		if r.Mode == "online" {
			mode = "online"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			mode,
			r.Player1,
			r.Player2,
			fmt.Sprintf("%d-%d", r.Score1, r.Score2),
			winner,
			r.EndReason,
		}
	}
	return rows
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % 2
			m.table = m.createTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("MATCH HISTORY - "+m.tab.String()), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Match history is unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load history:\n" + m.loadErr.Error())
	case len(m.table.Rows()) == 0:
		return emptyStyle.Render("No matches recorded yet.\nSink a fleet to get on the board!")
	}
	return m.table.View()
}

// Tab returns the active view.
func (m ScoreboardModel) Tab() ScoreboardTab { return m.tab }

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool { return m.quitting }
