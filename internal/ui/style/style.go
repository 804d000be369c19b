// Package style provides shared styling primitives, colors and icons,
// for consistent visual presentation across the CLI.
package style

import "github.com/muesli/termenv"

// Palette.
var (
	Iris   = termenv.RGBColor("#8B5CF6")
	Slate  = termenv.RGBColor("#667085")
	Green  = termenv.RGBColor("#22A06B")
	Red    = termenv.RGBColor("#D93025")
	Yellow = termenv.RGBColor("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)
