package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
)

// Lobby is a host waiting for an opponent.
type Lobby struct {
	Code      string
	Host      SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for a joiner
	TurnTimeout   time.Duration // How long a player may take to fire; 0 disables
	CleanupPeriod time.Duration // How often expired lobbies are swept
}

// DefaultCoordinatorConfig returns the server defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		TurnTimeout:   2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory builds an unstarted game for two named players.
type GameFactory func(host, joiner string) (*battleship.Game, error)

// NewGameFactory returns a factory that seats two humans using base as the
// board and placement settings.
func NewGameFactory(base battleship.Config) GameFactory {
	return func(host, joiner string) (*battleship.Game, error) {
		cfg := base
		cfg.Players = [2]battleship.PlayerSpec{
			{Name: host, Kind: battleship.Human},
			{Name: joiner, Kind: battleship.Human},
		}
		cfg.Seed = time.Now().UnixNano()
		return battleship.NewGame(cfg), nil
	}
}

// MatchResultSaver persists finished matches. Implemented by the storage
// package so this package does not depend on it.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match ready for persistence.
type MatchResultData struct {
	MatchID      string
	Mode         MatchMode
	Player1      string
	Player2      string
	Winner       string // Empty if nobody won
	Score1       int
	Score2       int
	Shots1       int
	Shots2       int
	EndReason    string
	DurationSecs int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a coordinator. Call Start to begin processing.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       log.Default().WithPrefix("coordinator"),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the coordinator's logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = l
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down and stops every running match.
func (c *Coordinator) Stop() {
	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.matches {
		m.Stop()
	}
}

// Send queues a message for processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case AttackMsg:
		c.handleAttack(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, busy := c.sessionMatch[msg.SessionID]; busy {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{Code: code, Host: session, CreatedAt: time.Now()}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "host", session.Name())
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.sessionLobby[msg.SessionID]; busy {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, busy := c.sessionMatch[msg.SessionID]; busy {
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := NormalizeCode(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	c.startMatch(lobby, session)
}

// startMatch must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle) {
	host := lobby.Host
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, host.ID())

	game, err := c.gameFactory(host.Name(), joiner.Name())
	if err == nil {
		_, err = game.InitGame()
	}
	if err != nil {
		c.logger.Error("cannot start match", "code", lobby.Code, "err", err)
		failed := LobbyErrorEvent{Message: "Failed to create game"}
		host.Send(failed)
		joiner.Send(failed)
		return
	}

	matchID := NewMatchID()
	match := NewOnlineMatch(matchID, lobby.Code, game, host, joiner, c.config.TurnTimeout)
	c.matches[matchID] = match
	c.sessionMatch[host.ID()] = matchID
	c.sessionMatch[joiner.ID()] = matchID

	host.Send(MatchStartedEvent{MatchID: matchID, Side: Player1, Code: lobby.Code, Opponent: joiner.Name()})
	joiner.Send(MatchStartedEvent{MatchID: matchID, Side: Player2, Code: lobby.Code, Opponent: host.Name()})
	c.logger.Info("match started", "match", matchID, "code", lobby.Code, "host", host.Name(), "joiner", joiner.Name())

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	p1, p2 := match.Session(Player1), match.Session(Player2)

	if c.resultSaver != nil {
		data := MatchResultData{
			MatchID:      string(matchID),
			Mode:         MatchModeOnline,
			Player1:      p1.Name(),
			Player2:      p2.Name(),
			Score1:       result.Score[Player1],
			Score2:       result.Score[Player2],
			Shots1:       result.Shots[Player1],
			Shots2:       result.Shots[Player2],
			EndReason:    result.Reason.String(),
			DurationSecs: int(result.Duration / time.Second),
		}
		if result.HasWinner {
			data.Winner = match.Session(result.Winner).Name()
		}
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Error("save match result", "match", matchID, "err", err)
			}
		}()
	}

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, matchID)

	c.logger.Info("match ended", "match", matchID, "reason", result.Reason, "score", fmt.Sprintf("%d-%d", result.Score[Player1], result.Score[Player2]))

	ended := MatchEndedEvent{
		MatchID:   matchID,
		Reason:    result.Reason,
		Winner:    result.Winner,
		HasWinner: result.HasWinner,
		Score:     result.Score,
		Shots:     result.Shots,
		Duration:  result.Duration,
	}
	p1.Send(ended)
	p2.Send(ended)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := NormalizeCode(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	owned := c.sessionMatch[msg.SessionID] == msg.MatchID
	c.mu.RUnlock()

	if exists && owned {
		match.Forfeit(msg.SessionID)
	}
}

func (c *Coordinator) handleAttack(msg AttackMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	owned := c.sessionMatch[msg.SessionID] == msg.MatchID
	c.mu.RUnlock()

	if !exists || !owned {
		if s, ok := c.sessions.Get(msg.SessionID); ok {
			s.Send(AttackRejectedEvent{MatchID: msg.MatchID, Message: "Not in this match"})
		}
		return
	}
	if !match.SubmitAttack(msg.SessionID, msg.X, msg.Y) {
		c.logger.Warn("attack dropped", "match", msg.MatchID, "session", msg.SessionID)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// NormalizeCode trims and upper-cases a typed join code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[NormalizeCode(code)]
	return l, ok
}

// GetMatch returns a running match by ID.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
