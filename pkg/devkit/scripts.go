package devkit

import (
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// AddScript returns scripts with command registered under name.
//
// A new name is set to command. When the existing command already contains
// command as a whole token it is left as is, otherwise command is chained
// after it with " && ". scripts itself is not modified.
//
//	AddScript({}, "fmt", "prettier --write")        // {fmt: "prettier --write"}
//	AddScript({fmt: "echo a"}, "fmt", "echo ab")    // {fmt: "echo a && echo ab"}
func AddScript(scripts *jsondoc.Object, name, command string) *jsondoc.Object {
	result := jsondoc.NewObject()
	if scripts != nil {
		result = jsondoc.Clone(scripts).(*jsondoc.Object)
	}

	patch := jsondoc.NewObject()
	patch.Set(name, command)

	return jsondoc.MergeWith(result, chainScript, patch)
}

func chainScript(dst, src any, _ string) (any, bool) {
	existing, ok := dst.(string)
	if !ok || existing == "" {
		return nil, false
	}
	command, ok := src.(string)
	if !ok {
		return nil, false
	}
	if textutil.ContainsToken(existing, command) {
		return existing, true
	}
	return existing + " && " + command, true
}

// AddScriptToWorkspace adds a script to the workspace package.json and
// returns the updated document, or nil when package.json could not be
// updated.
func AddScriptToWorkspace(t tree.Store, name, command string) *jsondoc.Object {
	return UpsertJSONFile(t, PackageJSON, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		scripts, _ := doc.Get("scripts")
		current, ok := jsondoc.AsObject(scripts)
		if !ok {
			current = nil
		}
		doc.Set("scripts", AddScript(current, name, command))
		return doc, nil
	})
}
