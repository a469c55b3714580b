package outwriter

import (
	"os"

	"github.com/huangsam/feedstore/internal/contract"
	"golang.org/x/term"
)

// getMaxTableURLWidth calculates the maximum width for image URLs in table output
// based on terminal width and table configuration.
func getMaxTableURLWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Pos + ID (a UUID is 36 runes) + Description + Location with borders/padding
	baseWidth := 6 + 39 + 2*(maxOptionalWidth+3)

	// Reserve space for table borders and separators
	baseWidth += 8

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}

// maxOptionalWidth caps the description and location columns.
const maxOptionalWidth = 24
