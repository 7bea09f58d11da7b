package devkit

import (
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// Editor configuration files.
const (
	VSCodeSettings   = ".vscode/settings.json"
	VSCodeExtensions = ".vscode/extensions.json"
)

// UpsertVSCodeSettings deep-merges settings into the editor settings. Arrays
// found on both sides are concatenated without duplicates.
func UpsertVSCodeSettings(t tree.Store, settings any) *jsondoc.Object {
	return UpsertJSONFile(t, VSCodeSettings, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		return jsondoc.MergeWithArray(doc, settings), nil
	})
}

// AddIDESettings is UpsertVSCodeSettings.
func AddIDESettings(t tree.Store, settings any) *jsondoc.Object {
	return UpsertVSCodeSettings(t, settings)
}

// UpsertVSCodeRecommendations adds extensions to the recommended editor
// extensions, keeping the existing ones first.
func UpsertVSCodeRecommendations(t tree.Store, extensions ...string) *jsondoc.Object {
	return UpsertJSONFile(t, VSCodeExtensions, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		patch := jsondoc.NewObject()
		patch.Set("recommendations", toAny(extensions))
		return jsondoc.MergeWithArray(doc, patch), nil
	})
}

// AddIDEPluginRecommendations adds extensions to the recommended editor
// extensions. Unlike UpsertVSCodeRecommendations, an existing recommendations
// value that is not an array is replaced.
func AddIDEPluginRecommendations(t tree.Store, extensions ...string) *jsondoc.Object {
	return UpsertJSONFile(t, VSCodeExtensions, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		var current []string
		if v, ok := doc.Get("recommendations"); ok {
			if arr, ok := jsondoc.AsArray(v); ok {
				for _, item := range arr {
					if s, ok := item.(string); ok {
						current = append(current, s)
					}
				}
			}
		}
		merged := textutil.CleanStringArray(append(current, extensions...))
		doc.Set("recommendations", toAny(merged))
		return doc, nil
	})
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
