package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// styles holds the color formatters for human output
type styles struct {
	messageID *color.Color
	heading   *color.Color
	rule      *color.Color
	empty     *color.Color
	failure   *color.Color
}

// newStyles creates color formatters; enabled=false disables every style.
func newStyles(enabled bool) *styles {
	s := &styles{
		messageID: color.New(color.Bold, color.FgGreen),
		heading:   color.New(color.Bold),
		rule:      color.New(color.Bold, color.FgHiBlue),
		empty:     color.New(color.FgYellow),
		failure:   color.New(color.Bold, color.FgRed),
	}

	if !enabled {
		s.messageID.DisableColor()
		s.heading.DisableColor()
		s.rule.DisableColor()
		s.empty.DisableColor()
		s.failure.DisableColor()
	}

	return s
}

// colorEnabled resolves a --color value: auto, always or never.
func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		// Check if stdout is a TTY and NO_COLOR is not set
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
}

// logf writes a status line to stderr unless --quiet is set.
func logf(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// debugf writes a status line to stderr only with --verbose.
func debugf(cmd *cobra.Command, format string, args ...any) {
	if !verbose || quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
