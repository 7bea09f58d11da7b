package devkit

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/RicardoJBarrios/kuocli/pkg/exec"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// PackageJSON is the workspace manifest.
const PackageJSON = "package.json"

// DependencyType is a dependency section of package.json.
type DependencyType string

const (
	Dependencies         DependencyType = "dependencies"
	DevDependencies      DependencyType = "devDependencies"
	PeerDependencies     DependencyType = "peerDependencies"
	PeerDependenciesMeta DependencyType = "peerDependenciesMeta"
	BundleDependencies   DependencyType = "bundleDependencies"
	OptionalDependencies DependencyType = "optionalDependencies"
)

// DependencyTypes lists every section in package.json order.
var DependencyTypes = []DependencyType{
	Dependencies,
	DevDependencies,
	PeerDependencies,
	PeerDependenciesMeta,
	BundleDependencies,
	OptionalDependencies,
}

// GetWorkspaceDependencies returns the package names declared in the
// workspace package.json, limited to types when any are given. The result is
// empty when package.json is missing or invalid.
func GetWorkspaceDependencies(t tree.Store, types ...DependencyType) []string {
	doc := GetJSONFile(t, PackageJSON)
	if doc == nil {
		return []string{}
	}
	if len(types) == 0 {
		types = DependencyTypes
	}

	var names []string
	for _, typ := range types {
		v, _ := doc.Get(string(typ))
		section, ok := v.(*jsondoc.Object)
		if !ok {
			continue
		}
		names = append(names, jsondoc.Keys(section)...)
	}
	return textutil.CleanStringArray(names)
}

// HasDependency reports whether name is declared in any of types (all
// sections when none are given).
func HasDependency(t tree.Store, name string, types ...DependencyType) bool {
	for _, dep := range GetWorkspaceDependencies(t, types...) {
		if dep == name {
			return true
		}
	}
	return false
}

// AddDependenciesToPackageJSON adds version ranges to the dependencies and
// devDependencies of the workspace package.json. A package already declared
// in either section stays there and keeps its range unless the new one is
// higher. Both sections end up sorted by name. The returned task installs
// the packages when package.json changed.
func AddDependenciesToPackageJSON(t *tree.Tree, deps, devDeps map[string]string) Callback {
	UpsertJSONFile(t, PackageJSON, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		addDependencies(doc, Dependencies, deps)
		addDependencies(doc, DevDependencies, devDeps)
		sortSection(doc, Dependencies)
		sortSection(doc, DevDependencies)
		return doc, nil
	})
	return InstallPackagesTask(t, "", false)
}

func addDependencies(doc *jsondoc.Object, typ DependencyType, versions map[string]string) {
	for _, name := range sortedKeys(versions) {
		version := versions[name]

		var target *jsondoc.Object
		for _, other := range []DependencyType{Dependencies, DevDependencies} {
			if s := section(doc, other, false); s != nil {
				if _, ok := s.Get(name); ok {
					target = s
					break
				}
			}
		}
		if target == nil {
			target = section(doc, typ, true)
		}

		current, ok := target.Get(name)
		if !ok {
			target.Set(name, version)
			continue
		}
		existing, _ := current.(string)
		if newerRange(version, existing) {
			logger.Debug("upgrading dependency", logger.F("name", name), logger.F("from", existing), logger.F("to", version))
			target.Set(name, version)
		}
	}
}

// section returns the dependency object of typ, creating it when create is
// set. A section that is not an object is replaced.
func section(doc *jsondoc.Object, typ DependencyType, create bool) *jsondoc.Object {
	v, _ := doc.Get(string(typ))
	if obj, ok := v.(*jsondoc.Object); ok {
		return obj
	}
	if !create {
		return nil
	}
	obj := jsondoc.NewObject()
	doc.Set(string(typ), obj)
	return obj
}

func sortSection(doc *jsondoc.Object, typ DependencyType) {
	s := section(doc, typ, false)
	if s == nil {
		return
	}
	keys := jsondoc.Keys(s)
	sort.Strings(keys)
	sorted := jsondoc.NewObject()
	for _, k := range keys {
		v, _ := s.Get(k)
		sorted.Set(k, v)
	}
	doc.Set(string(typ), sorted)
}

// newerRange reports whether candidate names a higher version than
// existing. Ranges that are not plain versions (tags, urls, workspace
// protocols) never replace or get replaced.
func newerRange(candidate, existing string) bool {
	c, e := canonicalVersion(candidate), canonicalVersion(existing)
	if c == "" || e == "" {
		return false
	}
	return semver.Compare(c, e) > 0
}

// canonicalVersion extracts "v1.2.3" from ranges such as "^1.2.3" or
// "~1.2". It returns "" when range is not a single version.
func canonicalVersion(r string) string {
	r = strings.TrimSpace(r)
	r = strings.TrimLeft(r, "^~>=<v")
	v := "v" + r
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InstalledVersion returns the version of dep installed in node_modules,
// falling back to the range declared in package.json.
func InstalledVersion(t tree.Store, dep string) (string, bool) {
	if doc := GetJSONFile(t, "node_modules/"+dep+"/package.json"); doc != nil {
		if v, ok := doc.Get("version"); ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}

	doc := GetJSONFile(t, PackageJSON)
	if doc == nil {
		return "", false
	}
	for _, typ := range DependencyTypes {
		s := section(doc, typ, false)
		if s == nil {
			continue
		}
		declared, _ := s.Get(dep)
		if r, ok := declared.(string); ok {
			if v := canonicalVersion(r); v != "" {
				return strings.TrimPrefix(v, "v"), true
			}
			return r, true
		}
	}
	return "", false
}

// Callback runs after the tree has been committed.
type Callback func(ctx context.Context, e *exec.Executor) error

// RunTasksInSerial returns a callback running callbacks one after the other,
// stopping at the first error. Nil callbacks are skipped.
func RunTasksInSerial(callbacks ...Callback) Callback {
	return func(ctx context.Context, e *exec.Executor) error {
		for _, cb := range callbacks {
			if cb == nil {
				continue
			}
			if err := cb(ctx, e); err != nil {
				return err
			}
		}
		return nil
	}
}
