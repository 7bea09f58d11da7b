package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Executor runs external commands
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	dir     string
	dryRun  bool
	spinner bool

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string // Additional environment variables
	Dir     string   // Working directory
	DryRun  bool     // Print commands instead of running them
	Spinner bool     // Show a spinner in RunWithSpinner when stderr is a terminal
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{Spinner: true}
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Executor{
		stdout:      stdout,
		stderr:      stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		dryRun:      opts.DryRun,
		spinner:     opts.Spinner,
		commandFunc: exec.Command,
	}
}

// Dir returns the working directory commands run in.
func (e *Executor) Dir() string { return e.dir }

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool { return e.dryRun }

// Run executes a command streaming its output
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	if e.dryRun {
		fmt.Fprintf(e.stdout, "✓ [DRY RUN] %s\n", commandLine(name, args))
		return nil
	}
	return e.run(ctx, e.stdout, e.stderr, name, args...)
}

// Output runs a command and returns its trimmed stdout. It also runs in dry
// run mode, so it must only be used for commands without side effects.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	if err := e.run(ctx, &stdout, &stderr, name, args...); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (e *Executor) run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s cancelled: %w", name, err)
	}

	cmd := e.commandFunc(name, args...)

	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = append(base, e.env...)
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == 127 {
				return enhanceError(err, name)
			}
			return fmt.Errorf("%s failed: %w", commandLine(name, args), err)
		}
		return nil
	}
}

// RunWithSpinner runs a command behind a progress spinner. Output is captured
// and only printed when the command fails. Without a terminal, the message
// is printed and the output streamed with an indent.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	if e.dryRun {
		return e.Run(ctx, name, args...)
	}

	if !e.spinner || !isTerminal(e.stderr) {
		fmt.Fprintln(e.stderr, message+"...")
		stdout := NewPrefixWriter(e.stdout, "   ")
		stderr := NewPrefixWriter(e.stderr, "   ")
		err := e.run(ctx, stdout, stderr, name, args...)
		stdout.Flush()
		stderr.Flush()
		return err
	}

	var captured bytes.Buffer
	var mu sync.Mutex
	sink := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return captured.Write(p)
	})

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))
	spinnerDone := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(spinnerDone)
	}()

	err := e.run(ctx, sink, sink, name, args...)
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-spinnerDone:
	case <-time.After(200 * time.Millisecond):
		p.Quit()
		<-spinnerDone
	}

	if err != nil {
		mu.Lock()
		_, _ = e.stderr.Write(captured.Bytes())
		mu.Unlock()
	}
	return err
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✖ %s\n", m.message)
		}
		return fmt.Sprintf("✔ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\nCommand '%s' not found. Please install it and try again", err, cmd)
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
