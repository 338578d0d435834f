package core

// RuntimeConfig contains configuration passed to the viewer at startup.
// It is read once by the composition root and passed down.
type RuntimeConfig struct {
	ScreenW   int     // Screen width in characters
	ScreenH   int     // Screen height in characters
	TickRate  int     // Render ticks per second
	CellScale float64 // Screen cells per meter horizontally
	Debug     bool    // Draw broad-phase bounds and HUD details
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TickRate:  60,
		CellScale: 4,
	}
}
