package generator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/pkg/input"
)

func TestNewResolver(t *testing.T) {
	for _, name := range []string{"", "overwrite", "skip", "prompt", "SKIP"} {
		r, err := NewResolver(name, nil)
		require.NoError(t, err, name)
		assert.NotNil(t, r)
	}

	_, err := NewResolver("merge", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown conflict strategy")
}

func TestOverwriteAndSkipStrategies(t *testing.T) {
	res, err := (&OverwriteStrategy{}).Resolve(".prettierrc", []byte("old"), []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, Overwrite, res)

	res, err = (&SkipStrategy{}).Resolve(".prettierrc", []byte("old"), []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
}

func TestNilResolverOverwrites(t *testing.T) {
	var r *Resolver
	res, err := r.ResolveConflict("a", []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, Overwrite, res)
}

func TestPromptStrategy(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   ConflictResolution
	}{
		{"accept", "y\n", Overwrite},
		{"default", "\n", Overwrite},
		{"decline", "n\n", Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := &PromptStrategy{
				Prompter: input.New(strings.NewReader(tt.answer), &out),
				Out:      &out,
			}

			res, err := s.Resolve(".prettierrc", []byte("{}\n"), []byte("{\"semi\":false}\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
			assert.Contains(t, out.String(), "+{\"semi\":false}")
			assert.Contains(t, out.String(), "Overwrite .prettierrc?")
		})
	}
}

func TestPromptStrategy_UsesPagerForLongDiffs(t *testing.T) {
	var paged string
	var out bytes.Buffer
	s := &PromptStrategy{
		Prompter:       input.New(strings.NewReader("y\n"), &out),
		Out:            &out,
		PagerThreshold: 2,
		Pager: func(path, diff string) error {
			paged = diff
			return nil
		},
	}

	res, err := s.Resolve("big.txt", []byte("a\nb\nc\n"), []byte("x\ny\nz\n"))
	require.NoError(t, err)
	assert.Equal(t, Overwrite, res)
	assert.Contains(t, paged, "+x")
	assert.NotContains(t, out.String(), "+x")
}

func TestPromptStrategy_IdenticalContentSkipsWithoutAsking(t *testing.T) {
	var out bytes.Buffer
	s := &PromptStrategy{Prompter: input.New(strings.NewReader(""), &out), Out: &out}

	res, err := s.Resolve("a", []byte("same"), []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
	assert.Empty(t, out.String())
}
