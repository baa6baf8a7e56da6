package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxTimeout  time.Duration
	flagEnvFile     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the battleship SSH server",
	Long: `Start an SSH server that lets players connect, play the computer
or challenge each other.

Each SSH connection gets its own session with the main menu. One player
hosts a lobby and reads out the 6-character join code; the other picks
"Join online match" and types it in. Finished matches are recorded in the
server's database (all players share the same history).

Settings can also come from the environment or a .env file:
  BATTLESHIP_SSH_ADDR, BATTLESHIP_HOST_KEY, BATTLESHIP_DB_PATH,
  BATTLESHIP_IDLE_TIMEOUT, BATTLESHIP_MAX_TIMEOUT, BATTLESHIP_LOG_LEVEL
Environment values override flags.

Examples:
  battleship serve                            # Listen on :2222
  battleship serve --ssh :23234               # Listen on port 23234
  battleship serve --host-key ./my_host_key   # Use a specific host key
  battleship serve --db ./battleship.db       # Use a specific database

Players connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := config.DefaultServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Addr, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", defaults.HostKeyPath, "Path to host key file (generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", defaults.IdleTimeout, "Disconnect idle sessions after this long")
	serveCmd.Flags().DurationVar(&flagMaxTimeout, "max-timeout", defaults.MaxTimeout, "Disconnect any session after this long")
	serveCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file with BATTLESHIP_* settings")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := serverConfig()
	if err != nil {
		return err
	}

	// --log-level may be overridden by BATTLESHIP_LOG_LEVEL.
	flagLogLevel = cfg.LogLevel
	logger, err := newLogger("battleship-ssh")
	if err != nil {
		return err
	}

	game, err := config.LoadBattleship(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	server, err := tui.NewSSHServer(cfg, game, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	logger.Info("press Ctrl+C to stop", "connect", "ssh localhost -p "+port(cfg.Addr))
	return server.ListenAndServe()
}

// serverConfig merges flags, the optional .env file and the environment.
func serverConfig() (config.ServerConfig, error) {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return config.ServerConfig{}, err
	}

	cfg := config.ServerConfig{
		Addr:        flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: flagIdleTimeout,
		MaxTimeout:  flagMaxTimeout,
		LogLevel:    flagLogLevel,
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.ServerConfig{}, err
	}
	return cfg, nil
}

func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
