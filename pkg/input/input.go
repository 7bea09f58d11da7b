// Package input provides interactive terminal input utilities.
//
// Recipes use it to ask before overwriting a file. When stdin is not a
// terminal, IsInteractive reports false and callers fall back to defaults.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

var std = New(os.Stdin, os.Stdout)

// Default returns the prompter bound to stdin and stdout.
func Default() *Prompter { return std }

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompt asks for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	name := p.Prompt("Library name", "shared-ui")
//	// Displays: Library name (shared-ui): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		p.ask(message, fmt.Sprintf("(%s)", defaultValue))
	} else {
		p.ask(message, "")
	}

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true.
//
// Example:
//
//	if p.Confirm("Overwrite .prettierrc?", true) {
//	    // ...
//	}
//	// Displays: Overwrite .prettierrc? [Y/n]: _
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	p.ask(message, hint)

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultYes
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (p *Prompter) ask(message, hint string) {
	line := promptStyle.Render(message)
	if hint != "" {
		line += " " + hintStyle.Render(hint)
	}
	fmt.Fprint(p.out, line+": ")
}

func (p *Prompter) readLine() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Prompt asks on stdin/stdout. See Prompter.Prompt.
func Prompt(message, defaultValue string) string {
	return std.Prompt(message, defaultValue)
}

// Confirm asks on stdin/stdout. See Prompter.Confirm.
func Confirm(message string, defaultYes bool) bool {
	return std.Confirm(message, defaultYes)
}
