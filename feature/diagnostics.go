// Completion: 100% - Diagnostics complete, clear and helpful messages
package feature

import (
	"fmt"
	"strings"
)

// Level indicates the severity of a diagnostic
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Context provides additional help for a diagnostic
type Context struct {
	Suggestion string // "did you mean '+crc'?"
	HelpText   string
}

// Diagnostic reports a problem found in a feature-modifier string.
// Column is 1-based; Length is the width of the offending token.
type Diagnostic struct {
	Level     Level
	Message   string
	Modifiers string // the full modifier string, for context
	Column    int
	Length    int
	Context   Context
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d: %s", d.Column, d.Message)
}

// Format returns the diagnostic with the modifier string and a caret line
func (d Diagnostic) Format(useColor bool) string {
	var sb strings.Builder

	if useColor {
		if d.Level == LevelError {
			sb.WriteString("\033[1;31m") // Bold red
		} else {
			sb.WriteString("\033[1;33m") // Bold yellow
		}
	}
	sb.WriteString(d.Level.String())
	sb.WriteString(": ")
	if useColor {
		sb.WriteString("\033[0m")
	}
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	if d.Modifiers != "" {
		sb.WriteString("  | ")
		sb.WriteString(d.Modifiers)
		sb.WriteString("\n")
		if d.Column > 0 {
			sb.WriteString("  | ")
			sb.WriteString(strings.Repeat(" ", d.Column-1))
			width := d.Length
			if width <= 0 {
				width = 1
			}
			sb.WriteString(strings.Repeat("^", width))
			sb.WriteString("\n")
		}
	}

	if d.Context.Suggestion != "" {
		if useColor {
			sb.WriteString("\033[1;32m") // Bold green
		}
		sb.WriteString("   help: ")
		if useColor {
			sb.WriteString("\033[0m")
		}
		sb.WriteString(d.Context.Suggestion)
		sb.WriteString("\n")
	}

	if d.Context.HelpText != "" {
		if useColor {
			sb.WriteString("\033[1;36m") // Bold cyan
		}
		sb.WriteString("   note: ")
		if useColor {
			sb.WriteString("\033[0m")
		}
		sb.WriteString(d.Context.HelpText)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Report formats a list of diagnostics followed by a summary line
func Report(diags []Diagnostic, useColor bool) string {
	if len(diags) == 0 {
		return ""
	}

	var sb strings.Builder
	warnings, errs := 0, 0
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Format(useColor))
		if d.Level == LevelError {
			errs++
		} else {
			warnings++
		}
	}

	sb.WriteString("\n")
	if errs > 0 {
		sb.WriteString(fmt.Sprintf("%d error(s)", errs))
		if warnings > 0 {
			sb.WriteString(", ")
		}
	}
	if warnings > 0 {
		sb.WriteString(fmt.Sprintf("%d warning(s)", warnings))
	}
	sb.WriteString(" found\n")
	return sb.String()
}
