package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCommand re-runs the test binary as a fake external command
func mockCommand(name string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is the fake command body
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "no command specified\n")
		os.Exit(1)
	}

	switch args[0] {
	case "echo":
		fmt.Println(strings.Join(args[1:], " "))
		os.Exit(0)
	case "env":
		fmt.Println(os.Getenv(args[1]))
		os.Exit(0)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Println(wd)
		os.Exit(0)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "error":
		fmt.Fprintf(os.Stderr, "error occurred\n")
		os.Exit(1)
	case "notfound":
		os.Exit(127)
	case "npm", "yarn", "pnpm", "bun":
		fmt.Printf("%s %s\n", args[0], strings.Join(args[1:], " "))
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		os.Exit(1)
	}
}

func newMockExecutor(opts *Options) (*Executor, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	if opts == nil {
		opts = &Options{}
	}
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	e := NewExecutor(opts)
	e.commandFunc = mockCommand
	return e, &stdout, &stderr
}

func TestNewExecutor_Defaults(t *testing.T) {
	e := NewExecutor(nil)

	assert.Equal(t, os.Stdout, e.stdout)
	assert.Equal(t, os.Stderr, e.stderr)
	assert.True(t, e.spinner)
	assert.False(t, e.DryRun())
	assert.Empty(t, e.Dir())
}

func TestRun_Success(t *testing.T) {
	e, stdout, _ := newMockExecutor(nil)

	err := e.Run(context.Background(), "echo", "hello", "world")

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", stdout.String())
}

func TestRun_Failure(t *testing.T) {
	e, _, stderr := newMockExecutor(nil)

	err := e.Run(context.Background(), "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error failed")
	assert.Contains(t, stderr.String(), "error occurred")
}

func TestRun_CommandNotFound(t *testing.T) {
	e, _, _ := newMockExecutor(nil)

	err := e.Run(context.Background(), "notfound")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Command 'notfound' not found")
}

func TestRun_MissingBinary(t *testing.T) {
	e := NewExecutor(&Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	err := e.Run(context.Background(), "kuocli-definitely-not-installed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found. Please install it")
}

func TestRun_DryRun(t *testing.T) {
	e, stdout, _ := newMockExecutor(&Options{DryRun: true})

	err := e.Run(context.Background(), "error", "--flag")

	require.NoError(t, err)
	assert.Equal(t, "✓ [DRY RUN] error --flag\n", stdout.String())
}

func TestRun_Env(t *testing.T) {
	e, stdout, _ := newMockExecutor(&Options{Env: []string{"KUOCLI_TEST=42"}})

	require.NoError(t, e.Run(context.Background(), "env", "KUOCLI_TEST"))
	assert.Equal(t, "42\n", stdout.String())
}

func TestRun_Dir(t *testing.T) {
	dir := t.TempDir()
	e, _, _ := newMockExecutor(&Options{Dir: dir})

	out, err := e.Output(context.Background(), "pwd")

	require.NoError(t, err)
	resolved, err := os.Stat(dir)
	require.NoError(t, err)
	got, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, os.SameFile(resolved, got))
}

func TestRun_ContextCancelled(t *testing.T) {
	e, _, _ := newMockExecutor(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := e.Run(ctx, "sleep")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_AlreadyCancelled(t *testing.T) {
	e, stdout, _ := newMockExecutor(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx, "echo", "never")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestOutput(t *testing.T) {
	e, _, _ := newMockExecutor(nil)

	out, err := e.Output(context.Background(), "echo", "  padded  ")

	require.NoError(t, err)
	assert.Equal(t, "padded", out)
}

func TestOutput_IncludesStderrOnFailure(t *testing.T) {
	e, _, _ := newMockExecutor(nil)

	_, err := e.Output(context.Background(), "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occurred")
}

func TestOutput_RunsInDryRun(t *testing.T) {
	e, _, _ := newMockExecutor(&Options{DryRun: true})

	out, err := e.Output(context.Background(), "echo", "read-only")

	require.NoError(t, err)
	assert.Equal(t, "read-only", out)
}

func TestRunWithSpinner_NoTerminal(t *testing.T) {
	e, stdout, stderr := newMockExecutor(&Options{Spinner: true})

	err := e.RunWithSpinner(context.Background(), "Installing", "echo", "done")

	require.NoError(t, err)
	assert.Equal(t, "Installing...\n", stderr.String())
	assert.Equal(t, "   done\n", stdout.String())
}

func TestRunWithSpinner_DryRun(t *testing.T) {
	e, stdout, stderr := newMockExecutor(&Options{DryRun: true})

	require.NoError(t, e.RunWithSpinner(context.Background(), "Installing", "npm", "install"))
	assert.Equal(t, "✓ [DRY RUN] npm install\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestSpinnerModel(t *testing.T) {
	m := newSpinnerModel("Installing")

	assert.Contains(t, m.View(), "Installing...")

	_, cmd := m.Update(spinnerDoneMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, "✔ Installing\n", m.View())

	m = newSpinnerModel("Installing")
	m.Update(spinnerDoneMsg{err: fmt.Errorf("boom")})
	assert.Equal(t, "✖ Installing\n", m.View())
}

func TestIsCommandNotFound(t *testing.T) {
	assert.False(t, isCommandNotFound(nil))
	assert.True(t, isCommandNotFound(exec.ErrNotFound))
	assert.True(t, isCommandNotFound(fmt.Errorf("sh: foo: command not found")))
	assert.False(t, isCommandNotFound(fmt.Errorf("permission denied")))
}
