package schema

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFiles embed.FS

type compiled struct {
	doc    map[string]any
	schema *gojsonschema.Schema
}

var (
	mu    sync.Mutex
	cache = map[string]*compiled{}
)

// Names returns the recipes that have a schema.
func Names() []string {
	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func load(name string) (*compiled, error) {
	mu.Lock()
	defer mu.Unlock()

	if c, ok := cache[name]; ok {
		return c, nil
	}

	data, err := schemaFiles.ReadFile("schemas/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	doc, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema %s: top level must be a mapping", name)
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	c := &compiled{doc: doc, schema: s}
	cache[name] = c
	return c, nil
}

// normalize converts YAML decoded values into JSON compatible ones.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}

// Validate checks options against the schema of the named recipe. The error
// is only set when the schema itself cannot be used.
func Validate(name string, options map[string]any) (*Result, error) {
	c, err := load(name)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = map[string]any{}
	}

	res, err := c.schema.Validate(gojsonschema.NewGoLoader(options))
	if err != nil {
		return nil, fmt.Errorf("validate %s options: %w", name, err)
	}

	result := &Result{Schema: name}
	for _, e := range res.Errors() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Type:    e.Type(),
		})
	}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Field < result.Errors[j].Field
	})
	return result, nil
}

// ApplyDefaults returns a copy of options with every missing top level
// property set to its schema default.
func ApplyDefaults(name string, options map[string]any) (map[string]any, error) {
	c, err := load(name)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(options))
	for k, v := range options {
		out[k] = v
	}

	props, _ := c.doc["properties"].(map[string]any)
	for key, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		def, ok := prop["default"]
		if !ok {
			continue
		}
		if _, set := out[key]; !set {
			out[key] = def
		}
	}
	return out, nil
}
