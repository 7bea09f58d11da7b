package devkit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
)

func workspaceWithProjects() map[string]string {
	return map[string]string{
		"apps/web/project.json":         `{"name":"web","projectType":"application","sourceRoot":"apps/web/src","tags":["scope:web"]}`,
		"apps/web-e2e/project.json":     `{"projectType":"application"}`,
		"libs/ui/project.json":          `{"name":"ui","projectType":"library","targets":{"test":{"executor":"@nrwl/jest:jest"}}}`,
		"libs/broken/project.json":      `{`,
		"node_modules/pkg/project.json": `{"name":"dep","projectType":"library"}`,
		"dist/libs/ui/project.json":     `{"name":"ui-dist","projectType":"library"}`,
		".cache/project.json":           `{"name":"hidden","projectType":"library"}`,
		"workspace.json":                `{"version":2,"projects":{"legacy":"libs/legacy","web":"apps/web"}}`,
		"libs/legacy/README.md":         "legacy",
	}
}

func TestProjects(t *testing.T) {
	tr := newTree(t, workspaceWithProjects())

	projects, err := devkit.Projects(tr)

	require.NoError(t, err)
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"legacy", "ui", "web", "web-e2e"}, names)

	web := projects[2]
	assert.Equal(t, "apps/web", web.Root)
	assert.Equal(t, "apps/web/src", web.SourceRoot)
	assert.Equal(t, devkit.Application, web.ProjectType)
	assert.Equal(t, []string{"scope:web"}, web.Tags)

	ui := projects[1]
	require.NotNil(t, ui.Targets)
	_, ok := ui.Targets.Get("test")
	assert.True(t, ok)
}

func TestProjectNamesByType(t *testing.T) {
	tr := newTree(t, workspaceWithProjects())

	apps, err := devkit.ProjectNamesByType(tr, devkit.Application)
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "web-e2e"}, apps)

	libs, err := devkit.ProjectNamesByType(tr, devkit.Library)
	require.NoError(t, err)
	assert.Equal(t, []string{"ui"}, libs)
}

func TestProjectNamesByType_EmptyWorkspace(t *testing.T) {
	names, err := devkit.ProjectNamesByType(newTree(t, nil), devkit.Library)

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAddProjectConfiguration(t *testing.T) {
	tr := newTree(t, nil)

	err := devkit.AddProjectConfiguration(tr, "shared-utils", devkit.ProjectConfiguration{
		Root:        "libs/shared/utils",
		SourceRoot:  "libs/shared/utils/src",
		ProjectType: devkit.Library,
		Tags:        []string{"type:util"},
	})
	require.NoError(t, err)

	assert.Equal(t, `{
  "name": "shared-utils",
  "$schema": "../../../node_modules/nx/schemas/project-schema.json",
  "projectType": "library",
  "sourceRoot": "libs/shared/utils/src",
  "tags": [
    "type:util"
  ],
  "targets": {}
}
`, read(t, tr, "libs/shared/utils/project.json"))

	p, err := devkit.ReadProjectConfiguration(tr, "shared-utils")
	require.NoError(t, err)
	assert.Equal(t, "libs/shared/utils", p.Root)

	err = devkit.AddProjectConfiguration(tr, "shared-utils", devkit.ProjectConfiguration{Root: "libs/other"})
	assert.True(t, errors.Is(err, devkit.ErrProjectExists))

	err = devkit.AddProjectConfiguration(tr, "other", devkit.ProjectConfiguration{Root: "libs/shared/utils"})
	assert.True(t, errors.Is(err, devkit.ErrProjectExists))
}

func TestReadProjectConfiguration_Missing(t *testing.T) {
	_, err := devkit.ReadProjectConfiguration(newTree(t, nil), "nope")

	assert.ErrorContains(t, err, `cannot find project "nope"`)
}
