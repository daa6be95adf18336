package constants

// Piano-roll grid, must match the frontend's script.js.
const (
	TopPadding  = 100
	LineSpacing = 20
)

// Pixel width of one default note length (an eighth).
const PixelsPerUnit = 20

// BaseOctave is the octave of grid row 0.
const BaseOctave = 5

// 4/4 with L:1/8 gives eight units per bar.
const MeasureLength = 8

const (
	DefaultAddr           = ":5000"
	DefaultAllowedOrigins = "*"
	DefaultLogLevel       = "info"
	DefaultConfigFile     = "music-copilot.yaml"
)

// Midi export
const (
	TicksPerQuarter = 96
	TicksPerUnit    = TicksPerQuarter / 2
	DefaultVelocity = 100
)
