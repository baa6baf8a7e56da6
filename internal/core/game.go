// Package core holds the types shared by the game controllers and the
// terminal platform: screen buffer, input frames and the fixed-tick Game
// contract. It has no dependency on Bubble Tea.
package core

// Game is a fixed-tick simulation the platform drives.
type Game interface {
	// Reset starts a fresh game. Called once at start and on restart.
	Reset(cfg RuntimeConfig)

	// Step advances the game by one tick using the actions pressed since
	// the previous tick.
	Step(in InputFrame) StepResult

	// Render draws the game into dst. The screen is cleared beforehand.
	Render(dst *Screen)

	State() GameState
}
