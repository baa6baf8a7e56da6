package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

// SSHServer serves battleship sessions over SSH and pairs players for
// online matches.
type SSHServer struct {
	config      config.ServerConfig
	game        config.BattleshipConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

// NewSSHServer creates a server. A database that cannot be opened is
// logged and the server runs without match history.
func NewSSHServer(cfg config.ServerConfig, game config.BattleshipConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "battleship-ssh",
		})
	}

	base, err := game.GameConfig(0)
	if err != nil {
		return nil, fmt.Errorf("tui: invalid game config: %w", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open match database", "path", cfg.DBPath, "error", err)
		store = nil
	}

	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), multiplayer.NewGameFactory(base), sessions)
	coord.SetLogger(logger.WithPrefix("coordinator"))
	if store != nil {
		coord.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		game:        game,
		store:       store,
		sessions:    sessions,
		coordinator: coord,
		logger:      logger,
	}

	hostKeyDir := filepath.Dir(cfg.HostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(cfg.MaxTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "battleship needs an interactive terminal: connect with ssh -t")
		return nil, nil
	}

	handle := multiplayer.NewChannelSession(multiplayer.NewSessionID(), playerName(sess.User()), 64)
	s.sessions.Register(handle)
	go s.watchSession(sess.Context(), handle)

	model := NewSessionModel(SessionOptions{
		Config: s.game,
		Store:  s.store,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.game.TickRate,
			Seed:     time.Now().UnixNano(),
		},
		PlayerName:  handle.Name(),
		Coordinator: s.coordinator,
		Session:     handle,
	})

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// watchSession releases the handle once the SSH connection closes.
func (s *SSHServer) watchSession(ctx context.Context, handle *multiplayer.ChannelSession) {
	<-ctx.Done()
	s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: handle.ID()})
	s.sessions.Unregister(handle.ID())
	handle.Close()
}

func playerName(user string) string {
	if user == "" {
		return "sailor"
	}
	if len(user) > 16 {
		return user[:16]
	}
	return user
}

// sessionMiddleware logs session lifetimes with the connected player count.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Debug("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"online", s.sessions.Count(),
		)
		next(sess)
		s.logger.Debug("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.coordinator.Start()
	s.logger.Info("starting SSH server", "address", s.config.Addr, "history", s.store != nil)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.coordinator.Stop()
		s.closeStore()
		return fmt.Errorf("tui: serve: %w", err)
	}
}

// Shutdown gracefully stops the server, every running match and the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Addr
}
