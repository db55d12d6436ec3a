package main

import (
	"os"

	"github.com/arthur-debert/owl/pkg/ui"
)

// detectTerminal reports whether styled output should be used for f.
func detectTerminal(f *os.File) bool {
	return ui.DetectFormat(f) == ui.FormatTerminal
}
