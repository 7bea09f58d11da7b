package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("dry-run", false, "")
	fs.Bool("verbose", false, "")
	fs.String("on-conflict", "overwrite", "")
	fs.String("package-manager", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)

	require.NoError(t, err)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.Gitflow)
	assert.Equal(t, "overwrite", cfg.OnConflict)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.File)
	assert.Equal(t, logger.LevelWarn, cfg.Level())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".kuocli.yaml", "package_manager: pnpm\ngitflow: false\non_conflict: skip\nlog_level: info\n")

	cfg, err := Load(dir, nil)

	require.NoError(t, err)
	assert.Equal(t, "pnpm", cfg.PackageManager)
	assert.False(t, cfg.Gitflow)
	assert.Equal(t, "skip", cfg.OnConflict)
	assert.Equal(t, logger.LevelInfo, cfg.Level())
	assert.Equal(t, filepath.Join(dir, ".kuocli.yaml"), cfg.File)
}

func TestLoad_PrefersKuocliYaml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kuocli.yaml", "package_manager: yarn\n")
	writeFile(t, dir, ".kuocli.yaml", "package_manager: pnpm\n")

	cfg, err := Load(dir, nil)

	require.NoError(t, err)
	assert.Equal(t, "yarn", cfg.PackageManager)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kuocli.yaml", "package_manager: yarn\n")
	t.Setenv("KUOCLI_PACKAGE_MANAGER", "bun")
	t.Setenv("KUOCLI_SKIP_INSTALL", "true")

	cfg, err := Load(dir, nil)

	require.NoError(t, err)
	assert.Equal(t, "bun", cfg.PackageManager)
	assert.True(t, cfg.SkipInstall)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "KUOCLI_SKIP_FORMAT=true\n")
	t.Cleanup(func() { os.Unsetenv("KUOCLI_SKIP_FORMAT") })

	cfg, err := Load(dir, nil)

	require.NoError(t, err)
	assert.True(t, cfg.SkipFormat)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kuocli.yaml", "on_conflict: skip\npackage_manager: yarn\n")
	t.Setenv("KUOCLI_DRY_RUN", "false")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--dry-run", "--on-conflict=prompt"}))

	cfg, err := Load(dir, flags)

	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "prompt", cfg.OnConflict)
	assert.Equal(t, "yarn", cfg.PackageManager, "unset flags keep lower sources")
}

func TestLoad_VerboseMeansDebug(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--verbose"}))

	cfg, err := Load(t.TempDir(), flags)

	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kuocli.yaml", "on_conflict: merge\n")

	_, err := Load(dir, nil)
	assert.ErrorContains(t, err, "invalid on_conflict")

	writeFile(t, dir, "kuocli.yaml", "log_level: loud\n")
	_, err = Load(dir, nil)
	assert.ErrorContains(t, err, "invalid log_level")

	writeFile(t, dir, "kuocli.yaml", "on_conflict: [\n")
	_, err = Load(dir, nil)
	assert.ErrorContains(t, err, "failed to read kuocli.yaml")
}
