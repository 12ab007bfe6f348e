package outwriter

import (
	"os"

	"github.com/huangsam/githeat/internal/contract"
	"golang.org/x/term"
)

// Path column bounds for table output.
const (
	minPathWidth = 15
	maxPathWidth = 70
)

// terminalWidth reports the width of stdout, or 0 when it is not a terminal.
var terminalWidth = func() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		termWidth = terminalWidth()
	}
	if termWidth <= 0 {
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Rank + Value + Heat + Label + Resolved, plus borders and padding
	baseWidth := 45 + 20

	available := termWidth - baseWidth
	return min(max(available, minPathWidth), maxPathWidth)
}
