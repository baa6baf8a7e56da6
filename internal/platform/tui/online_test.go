package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
)

type fakeSender struct {
	sent []multiplayer.CoordinatorMessage
}

func (f *fakeSender) Send(msg multiplayer.CoordinatorMessage) {
	f.sent = append(f.sent, msg)
}

func (f *fakeSender) last() multiplayer.CoordinatorMessage {
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func updateLobby(t *testing.T, m OnlineLobbyModel, msg tea.Msg) OnlineLobbyModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(OnlineLobbyModel)
}

func updateMatch(t *testing.T, m OnlineMatchModel, msg tea.Msg) OnlineMatchModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(OnlineMatchModel)
}

func TestHostLobbyFlow(t *testing.T) {
	sender := &fakeSender{}
	m, _ := NewHostLobbyModel(sender, "host", 80, 24)

	if _, ok := sender.last().(multiplayer.CreateLobbyMsg); !ok {
		t.Fatalf("expected CreateLobbyMsg, got %T", sender.last())
	}
	if m.State() != OnlineStateHostCreating {
		t.Errorf("State() = %v, expected HostCreating", m.State())
	}

	m = updateLobby(t, m, sessionEventMsg{event: multiplayer.LobbyCreatedEvent{Code: "ABC234"}})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "ABC234" {
		t.Errorf("after create: state=%v code=%q", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "ABC234") {
		t.Error("View() should show the join code")
	}

	m = updateLobby(t, m, escKey)
	cancel, ok := sender.last().(multiplayer.CancelLobbyMsg)
	if !ok || cancel.Code != "ABC234" || cancel.SessionID != "host" {
		t.Errorf("expected CancelLobbyMsg for ABC234, got %#v", sender.last())
	}
	if !m.BackToMenu() {
		t.Error("esc should return to the menu")
	}
}

func TestHostLobbyMatchStarted(t *testing.T) {
	sender := &fakeSender{}
	m, _ := NewHostLobbyModel(sender, "host", 80, 24)
	m = updateLobby(t, m, sessionEventMsg{event: multiplayer.LobbyCreatedEvent{Code: "ABC234"}})

	started := multiplayer.MatchStartedEvent{MatchID: "m1", Side: multiplayer.Player1, Code: "ABC234", Opponent: "bob"}
	m = updateLobby(t, m, sessionEventMsg{event: started})

	got, ok := m.Started()
	if !ok || got != started {
		t.Errorf("Started() = %+v, %v; expected %+v", got, ok, started)
	}
}

func TestJoinLobbyFlow(t *testing.T) {
	sender := &fakeSender{}
	m, _ := NewJoinLobbyModel(sender, "guest", 80, 24)

	if len(sender.sent) != 0 {
		t.Fatalf("join screen should not send before a code is entered, sent %v", sender.sent)
	}

	// Enter with an empty code does nothing.
	m = updateLobby(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != OnlineStateJoinEnterCode || len(sender.sent) != 0 {
		t.Fatalf("empty code submitted: state=%v sent=%v", m.State(), sender.sent)
	}

	m = updateLobby(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc234")})
	m = updateLobby(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	join, ok := sender.last().(multiplayer.JoinLobbyMsg)
	if !ok {
		t.Fatalf("expected JoinLobbyMsg, got %T", sender.last())
	}
	if join.Code != "ABC234" || join.SessionID != "guest" {
		t.Errorf("JoinLobbyMsg = %+v, expected normalized code ABC234", join)
	}
	if m.State() != OnlineStateJoinWaiting {
		t.Errorf("State() = %v, expected JoinWaiting", m.State())
	}

	m = updateLobby(t, m, sessionEventMsg{event: multiplayer.LobbyErrorEvent{Message: "Lobby not found"}})
	if m.State() != OnlineStateJoinEnterCode {
		t.Errorf("State() after error = %v, expected JoinEnterCode", m.State())
	}
	if !strings.Contains(m.View(), "Lobby not found") {
		t.Error("View() should show the lobby error")
	}
}

func TestValidateJoinCode(t *testing.T) {
	if err := validateJoinCode("ab12"); err != nil {
		t.Errorf("validateJoinCode(ab12) = %v, expected nil", err)
	}
	if err := validateJoinCode("ab-1"); err == nil {
		t.Error("validateJoinCode(ab-1) should fail")
	}
}

func startedMatch(sender *fakeSender, side multiplayer.PlayerID) OnlineMatchModel {
	return NewOnlineMatchModel(sender, "me", multiplayer.MatchStartedEvent{
		MatchID:  "m1",
		Side:     side,
		Opponent: "rival",
	}, 80, 30)
}

func testSnapshot(t *testing.T, viewer battleship.Slot) battleship.Snapshot {
	t.Helper()
	cfg := battleship.DefaultConfig()
	cfg.Seed = 3
	g := battleship.NewGame(cfg)
	snap, err := g.InitGame()
	if err != nil {
		t.Fatalf("InitGame() failed: %v", err)
	}
	return snap.Masked(viewer)
}

func TestOnlineMatchFireOnTurn(t *testing.T) {
	sender := &fakeSender{}
	m := startedMatch(sender, multiplayer.Player2)

	m = updateMatch(t, m, runeKey(' '))
	if len(sender.sent) != 0 {
		t.Fatal("fire before the first snapshot should be ignored")
	}

	m = updateMatch(t, m, sessionEventMsg{event: multiplayer.SnapshotEvent{
		MatchID:  "m1",
		Side:     multiplayer.Player2,
		Snapshot: testSnapshot(t, battleship.Slot2),
		YourTurn: false,
	}})
	m = updateMatch(t, m, runeKey(' '))
	if len(sender.sent) != 0 {
		t.Error("fire out of turn should not reach the coordinator")
	}
	if !strings.Contains(m.Status(), "rival") {
		t.Errorf("Status() = %q, expected a wait message naming the opponent", m.Status())
	}

	m = updateMatch(t, m, sessionEventMsg{event: multiplayer.SnapshotEvent{
		MatchID:  "m1",
		Side:     multiplayer.Player2,
		Snapshot: testSnapshot(t, battleship.Slot2),
		YourTurn: true,
		Last:     &battleship.AttackResult{Result: battleship.OutcomeMiss, Coordinates: battleship.Coord{X: 0, Y: 0}},
		LastBy:   multiplayer.Player1,
	}})
	if !strings.Contains(m.Status(), "rival missed at A1") {
		t.Errorf("Status() = %q, expected the opponent's miss", m.Status())
	}

	m = updateMatch(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = updateMatch(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	attack, ok := sender.last().(multiplayer.AttackMsg)
	if !ok {
		t.Fatalf("expected AttackMsg, got %T", sender.last())
	}
	cur := m.Cursor()
	if attack.X != cur.X || attack.Y != cur.Y || attack.MatchID != "m1" {
		t.Errorf("AttackMsg = %+v, expected cursor %+v", attack, cur)
	}
	if cur.X != 6 || cur.Y != 5 {
		t.Errorf("Cursor() = %+v, expected (6, 5) after one step right from the centre", cur)
	}
}

func TestOnlineMatchIgnoresOtherMatches(t *testing.T) {
	m := startedMatch(&fakeSender{}, multiplayer.Player1)
	m = updateMatch(t, m, sessionEventMsg{event: multiplayer.MatchEndedEvent{MatchID: "other"}})
	if _, ended := m.Ended(); ended {
		t.Error("an event for another match should be ignored")
	}
}

func TestOnlineMatchForfeitNeedsConfirm(t *testing.T) {
	sender := &fakeSender{}
	m := startedMatch(sender, multiplayer.Player1)

	m = updateMatch(t, m, escKey)
	if m.BackToMenu() || len(sender.sent) != 0 {
		t.Fatal("first esc should only ask for confirmation")
	}

	m = updateMatch(t, m, escKey)
	leave, ok := sender.last().(multiplayer.LeaveMatchMsg)
	if !ok || leave.MatchID != "m1" {
		t.Errorf("expected LeaveMatchMsg for m1, got %#v", sender.last())
	}
	if !m.BackToMenu() {
		t.Error("second esc should return to the menu")
	}
}

func TestOnlineMatchEnded(t *testing.T) {
	sender := &fakeSender{}
	m := startedMatch(sender, multiplayer.Player1)

	m = updateMatch(t, m, sessionEventMsg{event: multiplayer.MatchEndedEvent{
		MatchID:   "m1",
		Reason:    multiplayer.MatchEndReasonCompleted,
		Winner:    multiplayer.Player1,
		HasWinner: true,
	}})

	ended, ok := m.Ended()
	if !ok || ended.Winner != multiplayer.Player1 {
		t.Fatalf("Ended() = %+v, %v", ended, ok)
	}
	if !strings.Contains(m.Status(), "You win") {
		t.Errorf("Status() = %q, expected a win message", m.Status())
	}

	m = updateMatch(t, m, escKey)
	if !m.BackToMenu() {
		t.Error("esc after the match should return to the menu")
	}
	if len(sender.sent) != 0 {
		t.Errorf("leaving a finished match should not forfeit, sent %v", sender.sent)
	}
}

func TestDescribeEnd(t *testing.T) {
	m := startedMatch(&fakeSender{}, multiplayer.Player2)

	tests := []struct {
		name string
		evt  multiplayer.MatchEndedEvent
		want string
	}{
		{"lost fleet", multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonCompleted, Winner: multiplayer.Player1, HasWinner: true}, "Your fleet is lost."},
		{"won by forfeit", multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonForfeit, Winner: multiplayer.Player2, HasWinner: true}, "You win: opponent forfeited."},
		{"lost on time", multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonTimeout, Winner: multiplayer.Player1, HasWinner: true}, "You lose: turn timed out."},
		{"no winner", multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonHostLeft}, "Match over: Host left."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.describeEnd(tc.evt); got != tc.want {
				t.Errorf("describeEnd() = %q, expected %q", got, tc.want)
			}
		})
	}
}
