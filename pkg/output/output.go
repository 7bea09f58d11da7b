// Package output provides styled terminal output for the CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
// Everything is written to a single writer (stdout by default) so that tests
// and dry runs can capture it.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	changeStyles = map[string]lipgloss.Style{
		"CREATE": lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true),
		"UPDATE": lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true),
		"DELETE": lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true),
	}

	mu          sync.Mutex
	writer      io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// SetWriter redirects all output. It returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := writer
	writer = w
	return prev
}

// Writer returns the current output writer.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return writer
}

func writeLine(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(writer, s)
}

// Success prints a success message in green.
//
// Example:
//
//	output.Success("codelint recipe applied")
func Success(msg string) {
	writeLine(successStyle.Render("✔ " + msg))
}

// Error prints an error message in red.
func Error(msg string) {
	writeLine(errorStyle.Render("✖ " + msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	writeLine(warnStyle.Render("⚠ " + msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	writeLine(infoStyle.Render("ℹ " + msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("npm install")
func Step(msg string) {
	writeLine(stepStyle.Render("   " + msg))
}

// Change prints a file change line such as "CREATE .prettierrc (34 bytes)".
// kind is CREATE, UPDATE or DELETE.
func Change(kind, path string, size int) {
	style, ok := changeStyles[kind]
	if !ok {
		style = stepStyle
	}
	line := style.Render(kind) + " " + path
	if kind != "DELETE" {
		line += stepStyle.Render(fmt.Sprintf(" (%d bytes)", size))
	}
	writeLine(line)
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	v := verboseMode
	mu.Unlock()
	if v {
		writeLine(stepStyle.Render("… " + msg))
	}
}
