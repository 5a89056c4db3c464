// Package diag provides structured, user-friendly CLI output
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	dgerr "github.com/variantgo/dispatchgen/internal/errors"
)

// Level represents the level of diagnostic output
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelDebug
)

// System provides leveled diagnostic output
type System struct {
	level     Level
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
}

// NewSystem creates a new diagnostic system
func NewSystem(level Level) *System {
	return &System{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= LevelVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuiet creates a diagnostic system that only shows errors
func NewQuiet() *System {
	return NewSystem(LevelError)
}

// NewVerbose creates a diagnostic system with full output
func NewVerbose() *System {
	return NewSystem(LevelVerbose)
}

// Color constants for terminal output
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorGray    = "\033[90m"
)

// Error outputs error messages (always shown unless silent)
func (d *System) Error(format string, args ...interface{}) {
	if d.level >= LevelError {
		d.writeMessage(d.errorOut, "ERROR", colorRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *System) Warn(format string, args ...interface{}) {
	if d.level >= LevelWarn {
		d.writeMessage(d.output, "WARN", colorYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *System) Info(format string, args ...interface{}) {
	if d.level >= LevelInfo {
		d.writeMessage(d.output, "INFO", colorBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *System) Success(format string, args ...interface{}) {
	if d.level >= LevelInfo {
		d.writeMessage(d.output, "SUCCESS", colorGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *System) Verbose(format string, args ...interface{}) {
	if d.level >= LevelVerbose {
		d.writeMessage(d.output, "VERBOSE", colorGray, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *System) Debug(format string, args ...interface{}) {
	if d.level >= LevelDebug {
		d.writeMessage(d.output, "DEBUG", colorMagenta, format, args...)
	}
}

// Header outputs the main tool header
func (d *System) Header(message string) {
	if d.level >= LevelInfo {
		cyan := color.New(color.FgCyan)
		cyan.Fprintf(d.output, "dispatchgen: %s\n", message)
	}
}

// PhaseItem outputs a phase item with checkmark
func (d *System) PhaseItem(message string) {
	if d.level >= LevelInfo {
		green := color.New(color.FgGreen)
		green.Fprint(d.output, "✓ ")
		fmt.Fprintf(d.output, "%s\n", message)
	}
}

// List outputs a bulleted list item
func (d *System) List(format string, args ...interface{}) {
	if d.level >= LevelInfo {
		message := fmt.Sprintf(format, args...)
		fmt.Fprintf(d.output, "- %s\n", message)
	}
}

// Summary outputs a final summary with statistics
func (d *System) Summary(title string, stats []string) {
	if d.level >= LevelInfo {
		fmt.Fprintf(d.output, "\n%s\n", title)
		for _, line := range stats {
			fmt.Fprintf(d.output, "   %s\n", line)
		}
		fmt.Fprintln(d.output)
	}
}

// Report writes a generation error with its location and any suggestions
func (d *System) Report(err error) {
	d.Error("%v", err)
	if ge, ok := err.(*dgerr.GenError); ok {
		for _, hint := range ge.Hints {
			if d.level >= LevelError {
				fmt.Fprintf(d.errorOut, "   hint: %s\n", hint)
			}
		}
	}
}

// writeMessage is the internal message writing function
func (d *System) writeMessage(writer io.Writer, level, levelColor, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	var output strings.Builder

	// Add timestamp if enabled
	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	// Add colored level if colors are enabled
	if d.useColors {
		output.WriteString(fmt.Sprintf("%s[%s]%s ", levelColor, level, colorReset))
	} else {
		output.WriteString(fmt.Sprintf("[%s] ", level))
	}

	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	// Check if NO_COLOR is set (standard)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check if FORCE_COLOR is set
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// Check if we have a terminal
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
