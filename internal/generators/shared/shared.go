// Package shared holds what the workspace recipes have in common: the husky
// setup, recipe dependencies and small option helpers.
package shared

import (
	"context"
	"strings"

	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// HuskyDevDependencies are added by every recipe that installs git hooks.
var HuskyDevDependencies = map[string]string{
	"husky": "^8.0.3",
}

// Husky install script.
const (
	PrepareScript  = "prepare"
	PrepareCommand = "husky install"
)

// GitflowInitializer initializes git-flow in the workspace repository.
type GitflowInitializer interface {
	Init(ctx context.Context) (bool, error)
}

// Deps are the collaborators a recipe works with.
type Deps struct {
	// Resolver decides about generated files that would replace different
	// content. Nil overwrites.
	Resolver *generator.Resolver
	// Renderer renders templates. Nil uses a new renderer.
	Renderer *generator.Renderer
	// Gitflow is used by recipes that initialize git-flow.
	Gitflow GitflowInitializer
	// DryRun disables steps that act outside the tree.
	DryRun bool
	// PackageManager overrides lockfile detection.
	PackageManager string
}

// GenerateOptions returns the devkit options for rendering data.
func (d Deps) GenerateOptions(data map[string]any) devkit.GenerateOptions {
	return devkit.GenerateOptions{Data: data, Resolver: d.Resolver, Renderer: d.Renderer}
}

// PrepareHusky registers the husky install script.
func PrepareHusky(t tree.Store) {
	devkit.AddScriptToWorkspace(t, PrepareScript, PrepareCommand)
}

// MergeDependencies merges version maps, later maps winning.
func MergeDependencies(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// SplitList splits a comma separated option into trimmed, non-empty,
// unique values.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return textutil.CleanStringArray(strings.Split(s, ","))
}

// Object builds an ordered JSON object from alternating keys and values.
// It panics on a non-string key.
func Object(kv ...any) *jsondoc.Object {
	obj := jsondoc.NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		obj.Set(kv[i].(string), kv[i+1])
	}
	return obj
}
