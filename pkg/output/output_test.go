package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOutput redirects the package writer during f
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := SetWriter(&buf)
	t.Cleanup(func() { SetWriter(prev) })

	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string)
		symbol string
	}{
		{"success", Success, "✔"},
		{"error", Error, "✖"},
		{"warn", Warn, "⚠"},
		{"info", Info, "ℹ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, func() { tt.fn("Test message") })
			assert.Contains(t, out, tt.symbol)
			assert.Contains(t, out, "Test message")
		})
	}
}

func TestStep(t *testing.T) {
	out := captureOutput(t, func() { Step("npm install") })
	assert.Contains(t, out, "   npm install")
}

func TestChange(t *testing.T) {
	out := captureOutput(t, func() {
		Change("CREATE", ".prettierrc", 34)
		Change("DELETE", ".editorconfig", 0)
	})

	assert.Contains(t, out, "CREATE")
	assert.Contains(t, out, ".prettierrc")
	assert.Contains(t, out, "(34 bytes)")
	assert.Contains(t, out, "DELETE")
	assert.NotContains(t, out, "(0 bytes)")
}

func TestVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	assert.Empty(t, captureOutput(t, func() { Verbose("hidden") }))

	SetVerbose(true)
	assert.Contains(t, captureOutput(t, func() { Verbose("shown") }), "shown")
}
