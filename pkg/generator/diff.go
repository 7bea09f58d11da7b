package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are generated and displayed.
// All fields are optional with sensible defaults.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines to show around changes.
	// Default: 3
	ContextLines int

	// TabWidth is the number of spaces each tab character expands to.
	// Default: 4
	TabWidth int

	// Width truncates long lines. Default: terminal width, or 80.
	Width int

	// Plain disables colors.
	Plain bool
}

// operation represents the type of diff operation
type operation int

const (
	opUnchanged operation = iota
	opAdded
	opRemoved
)

// diffLine represents a single line in the diff with its operation
type diffLine struct {
	oldLineNum int
	newLineNum int
	content    string
	op         operation
}

// hunk represents a contiguous block of changes with surrounding context
type hunk struct {
	oldStart int
	oldCount int
	newStart int
	newCount int
	lines    []diffLine
}

// Lipgloss styles for terminal output
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// GenerateDiff returns a unified diff between old and newer, or "" when they
// are identical.
func GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := DiffOptions{ContextLines: 3, TabWidth: 4}
	if opts != nil {
		o = *opts
		if o.ContextLines <= 0 {
			o.ContextLines = 3
		}
		if o.TabWidth <= 0 {
			o.TabWidth = 4
		}
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}

	if bytes.Equal(old, newer) {
		return ""
	}
	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	hunks := buildHunks(lineDiff(string(old), string(newer)), o.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	render := func(s lipgloss.Style, text string) string {
		if o.Plain {
			return text
		}
		return s.Render(text)
	}

	var buf strings.Builder
	buf.WriteString(render(headerStyle, "--- "+oldPath) + "\n")
	buf.WriteString(render(headerStyle, "+++ "+newPath) + "\n")

	for _, h := range hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
		buf.WriteString(render(hunkStyle, header) + "\n")

		for _, line := range h.lines {
			content := runewidth.Truncate(expandTabs(line.content, o.TabWidth), o.Width-2, "...")
			switch line.op {
			case opAdded:
				buf.WriteString(render(addedStyle, "+"+content) + "\n")
			case opRemoved:
				buf.WriteString(render(removedStyle, "-"+content) + "\n")
			default:
				buf.WriteString(" " + content + "\n")
			}
		}
	}

	return buf.String()
}

// GenerateDiffDefault uses default options (3 context lines).
func GenerateDiffDefault(oldPath, newPath string, old, newer []byte) string {
	return GenerateDiff(oldPath, newPath, old, newer, nil)
}

// lineDiff computes a line-level edit script.
func lineDiff(old, newer string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, newer)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var result []diffLine
	oldNum, newNum := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				result = append(result, diffLine{oldLineNum: oldNum, newLineNum: newNum, content: text, op: opUnchanged})
				oldNum++
				newNum++
			case diffmatchpatch.DiffDelete:
				result = append(result, diffLine{oldLineNum: oldNum, content: text, op: opRemoved})
				oldNum++
			case diffmatchpatch.DiffInsert:
				result = append(result, diffLine{newLineNum: newNum, content: text, op: opAdded})
				newNum++
			}
		}
	}
	return result
}

// buildHunks groups diff lines into hunks with surrounding context
func buildHunks(lines []diffLine, contextLines int) []hunk {
	var hunks []hunk
	i := 0
	for i < len(lines) {
		if lines[i].op == opUnchanged {
			i++
			continue
		}

		start := max(0, i-contextLines)
		end := i
		for end < len(lines) {
			if lines[end].op != opUnchanged {
				end++
				continue
			}
			// look ahead for another change within reach
			run := end
			for run < len(lines) && lines[run].op == opUnchanged {
				run++
			}
			if run < len(lines) && run-end <= contextLines*2 {
				end = run
				continue
			}
			end = min(len(lines), end+contextLines)
			break
		}

		h := hunk{lines: lines[start:end]}
		finalizeHunk(&h)
		hunks = append(hunks, h)
		i = end
	}
	return hunks
}

// finalizeHunk calculates the start and count values for a hunk
func finalizeHunk(h *hunk) {
	for _, line := range h.lines {
		if line.oldLineNum > 0 && h.oldStart == 0 {
			h.oldStart = line.oldLineNum
		}
		if line.newLineNum > 0 && h.newStart == 0 {
			h.newStart = line.newLineNum
		}
		if line.op != opAdded {
			h.oldCount++
		}
		if line.op != opRemoved {
			h.newCount++
		}
	}
}

// isBinary checks if content appears to be binary (contains null bytes)
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines splits content into lines, dropping the empty element after a
// final newline
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// expandTabs replaces tabs with spaces
func expandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var buf strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			buf.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		buf.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return buf.String()
}

// terminalWidth returns the terminal width, defaulting to 80 if unable to detect
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
