package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RicardoJBarrios/kuocli/pkg/input"
)

// ConflictResolution represents what to do with an existing file
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
)

func (r ConflictResolution) String() string {
	if r == Overwrite {
		return "overwrite"
	}
	return "skip"
}

// Strategy names accepted by NewResolver.
const (
	StrategyOverwrite = "overwrite"
	StrategySkip      = "skip"
	StrategyPrompt    = "prompt"
)

// ConflictStrategy determines how to resolve conflicts
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// Resolver decides what happens to files that would be replaced with
// different content.
type Resolver struct {
	strategy ConflictStrategy
}

// NewResolver creates a resolver for the named strategy. An empty name means
// overwrite. The prompter is only used by the prompt strategy and defaults to
// stdin/stdout.
func NewResolver(name string, prompter *input.Prompter) (*Resolver, error) {
	switch strings.ToLower(name) {
	case "", StrategyOverwrite:
		return &Resolver{strategy: &OverwriteStrategy{}}, nil
	case StrategySkip:
		return &Resolver{strategy: &SkipStrategy{}}, nil
	case StrategyPrompt:
		if prompter == nil {
			prompter = input.Default()
		}
		return &Resolver{strategy: &PromptStrategy{Prompter: prompter, Out: os.Stdout}}, nil
	}
	return nil, fmt.Errorf("unknown conflict strategy %q (want %s, %s or %s)",
		name, StrategyOverwrite, StrategySkip, StrategyPrompt)
}

// NewResolverWith wraps a custom strategy.
func NewResolverWith(strategy ConflictStrategy) *Resolver {
	return &Resolver{strategy: strategy}
}

// ResolveConflict determines what to do with a file that already exists.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	if r == nil || r.strategy == nil {
		return Overwrite, nil
	}
	return r.strategy.Resolve(path, existing, newer)
}

// OverwriteStrategy always returns Overwrite (no prompts)
type OverwriteStrategy struct{}

func (s *OverwriteStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always returns Skip (no prompts)
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// PromptStrategy prints the diff and asks whether to overwrite.
// Diffs longer than PagerThreshold lines open in a scrollable viewer when
// stdout is a terminal.
type PromptStrategy struct {
	Prompter       *input.Prompter
	Out            io.Writer
	PagerThreshold int
	Pager          func(path, diff string) error
}

func (s *PromptStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	diff := GenerateDiffDefault(path, path, existing, newer)
	if diff == "" {
		return Skip, nil
	}

	threshold := s.PagerThreshold
	if threshold <= 0 {
		threshold = 20
	}

	pager := s.Pager
	if pager == nil && input.IsInteractive() {
		pager = showDiff
	}

	if strings.Count(diff, "\n") > threshold && pager != nil {
		if err := pager(path, diff); err != nil {
			return Skip, fmt.Errorf("failed to show diff: %w", err)
		}
	} else {
		fmt.Fprint(out, diff)
	}

	prompter := s.Prompter
	if prompter == nil {
		prompter = input.Default()
	}
	if prompter.Confirm(fmt.Sprintf("Overwrite %s?", path), true) {
		return Overwrite, nil
	}
	return Skip, nil
}

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// showDiff opens diff in a full-screen viewport until the user quits.
func showDiff(path, diff string) error {
	_, err := tea.NewProgram(diffViewerModel{path: path, diff: diff}, tea.WithAltScreen()).Run()
	return err
}

// diffViewerModel is the BubbleTea model for showing diffs
type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "enter":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		height := msg.Height - 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}
	header := borderStyle.Render("── " + m.path + " ──")
	footer := mutedStyle.Render(fmt.Sprintf("[↑/↓] Scroll  [q] Back  %3.f%%", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}
