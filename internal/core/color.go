package core

// Color is the foreground of one screen cell. The platform layer maps each
// value to a terminal color; ColorDefault leaves the cell unstyled.
type Color uint8

const (
	ColorDefault      Color = iota
	ColorRed                // Falling trail
	ColorGreen              // Pipes, rising trail
	ColorYellow             // Overlay titles
	ColorCyan               // High-score HUD
	ColorWhite              // Wing
	ColorBrightGreen        // Pipe caps
	ColorBrightYellow       // Bird
	ColorOrange             // Ground, beak
)
