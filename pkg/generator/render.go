package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
)

// DefaultCacheSize bounds the number of parsed templates kept by a Renderer.
const DefaultCacheSize = 128

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   *lru.Cache[string, *template.Template]
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	cache, err := lru.New[string, *template.Template](DefaultCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   cache,
	}
}

// RenderString renders a template from a string
// The name is used for caching and error messages
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	tmpl, err := r.parse("string:"+name, name, func() ([]byte, error) {
		return []byte(templateStr), nil
	})
	if err != nil {
		return nil, err
	}
	return r.executeTemplate(tmpl, data)
}

// RenderFS renders a template read from fsys (usually an embed.FS)
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.parse(fmt.Sprintf("fs:%p:%s", fsys, path), path, func() ([]byte, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return r.executeTemplate(tmpl, data)
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.cache.Purge()
}

func (r *Renderer) parse(key, name string, read func() ([]byte, error)) (*template.Template, error) {
	if tmpl, ok := r.cache.Get(key); ok {
		return tmpl, nil
	}

	src, err := read()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.cache.Add(key, tmpl)
	return tmpl, nil
}

// executeTemplate executes a parsed template with the given data
func (r *Renderer) executeTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// defaultFuncMap returns the default template function map
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Case conversion
		"camelCase":  CamelCase,  // my-lib → myLib
		"pascalCase": PascalCase, // my-lib → MyLib
		"kebabCase":  KebabCase,  // MyLib → my-lib
		"snakeCase":  SnakeCase,  // my-lib → my_lib
		"title":      Title,      // my lib → My Lib

		// String manipulation
		"quote":     Quote,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"split":     strings.Split,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,

		// Utilities
		"toJSON":  ToJSON,
		"dict":    Dict,
		"default": Default,
	}
}

// words splits an identifier on separators and lower-to-upper transitions.
func words(s string) []string {
	var out []string
	var cur []rune
	runes := []rune(s)

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) ||
			(i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]))):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

var titleCaser = cases.Title(language.Und)

// PascalCase converts kebab-case, snake_case or camelCase to PascalCase
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

// CamelCase converts kebab-case, snake_case or PascalCase to camelCase
func CamelCase(s string) string {
	parts := words(s)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, w := range parts[1:] {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

// KebabCase converts an identifier to kebab-case
// Examples: MyLib → my-lib, HTTPServer → http-server
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "-"))
}

// SnakeCase converts an identifier to snake_case
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

// Title capitalizes the first letter of each word
func Title(s string) string {
	return titleCaser.String(s)
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// ToJSON encodes v as compact JSON for embedding in a template.
func ToJSON(v any) (string, error) {
	b, err := jsondoc.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Dict creates a map from alternating key-value pairs
// Usage in template: {{ template "partial" (dict "key1" val1 "key2" val2) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}

// Default returns the default value if the given value is nil or empty
func Default(defaultVal, val any) any {
	switch v := val.(type) {
	case nil:
		return defaultVal
	case string:
		if v == "" {
			return defaultVal
		}
	case []any:
		if len(v) == 0 {
			return defaultVal
		}
	case []string:
		if len(v) == 0 {
			return defaultVal
		}
	case map[string]any:
		if len(v) == 0 {
			return defaultVal
		}
	}

	// 0 and false are valid values
	return val
}
