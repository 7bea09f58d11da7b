package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	name  string
	calls int
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake" }
func (f *fakeCommand) Execute(ctx context.Context, e *Executor) error {
	f.calls++
	return nil
}

func TestCommandRegistry(t *testing.T) {
	r := NewCommandRegistry()
	cmd := &fakeCommand{name: "fake"}

	require.NoError(t, r.Register(cmd))
	assert.True(t, r.Has("fake"))

	assert.ErrorIs(t, r.Register(&fakeCommand{name: "fake"}), ErrDuplicateCommand)
	assert.ErrorIs(t, r.Register(nil), ErrInvalidCommand)
	assert.ErrorIs(t, r.Register(&fakeCommand{}), ErrInvalidCommand)

	require.NoError(t, r.Execute(context.Background(), "fake", nil))
	assert.Equal(t, 1, cmd.calls)

	assert.ErrorIs(t, r.Execute(context.Background(), "missing", nil), ErrUnknownCommand)

	assert.True(t, r.Unregister("fake"))
	assert.False(t, r.Unregister("fake"))
	assert.Empty(t, r.List())
}

func TestNewPackageRegistry(t *testing.T) {
	r := NewPackageRegistry()

	assert.Equal(t, []string{"install:bun", "install:npm", "install:pnpm", "install:yarn"}, r.List())
}

func TestInstallCommand_Execute(t *testing.T) {
	e, stdout, stderr := newMockExecutor(nil)

	err := NewPackageRegistry().Execute(context.Background(), InstallCommandName(PNPM), e)

	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Installing packages with pnpm...")
	assert.Equal(t, "   pnpm install\n", stdout.String())
}

func TestPackageManager(t *testing.T) {
	assert.True(t, Yarn.Valid())
	assert.False(t, PackageManager("pip").Valid())
	assert.Equal(t, "npm audit --audit-level=high", NPM.AuditCommand())
	assert.Equal(t, "yarn audit --level high", Yarn.AuditCommand())
	assert.Equal(t, "pnpm audit --audit-level high", PNPM.AuditCommand())
}
