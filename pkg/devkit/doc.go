// Package devkit holds the workspace helpers recipes are built from.
//
// Every helper takes the tree.Store it works on explicitly and merges its
// changes idempotently, so running a recipe twice leaves the workspace as
// running it once:
//
//	devkit.AddScriptToWorkspace(t, "format:all", "nx format:write --all")
//	_ = devkit.UpsertHuskyHook(t, "pre-commit", "npx --no-install lint-staged")
//	devkit.UpsertVSCodeRecommendations(t, "esbenp.prettier-vscode")
//
// JSON documents keep the key order they were read with. Documents that
// cannot be read as a JSON object are left untouched and reported through
// the logger instead of failing the recipe.
package devkit
