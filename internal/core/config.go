package core

// RuntimeConfig is passed to a Game when it is reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // 0 means the platform picks one
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Score    int  // Ships sunk by the local player
	GameOver bool // One fleet is sunk
	Won      bool // The local player sank the opposing fleet
	Paused   bool
	Status   string // One-line message for the status bar
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
	Shots int // Attacks resolved during this tick
}
