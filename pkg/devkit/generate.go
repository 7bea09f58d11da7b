package devkit

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// TemplateSuffix marks files rendered with text/template. Other files are
// copied verbatim.
const TemplateSuffix = ".tmpl"

// GenerateOptions configures GenerateFiles.
type GenerateOptions struct {
	// Data is passed to templates; "__key__" tokens in paths are replaced
	// with the value of key.
	Data map[string]any
	// Resolver decides about existing files with different content. Nil
	// overwrites.
	Resolver *generator.Resolver
	// Renderer defaults to a new generator.Renderer.
	Renderer *generator.Renderer
}

// GenerateFiles renders the files under srcDir of fsys into targetDir of the
// tree and returns the written paths.
func GenerateFiles(t tree.Store, fsys fs.FS, srcDir, targetDir string, opts GenerateOptions) ([]string, error) {
	sub, err := fs.Sub(fsys, srcDir)
	if err != nil {
		return nil, fmt.Errorf("template dir %s: %w", srcDir, err)
	}
	files, err := doublestar.Glob(sub, "**", doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("list templates in %s: %w", srcDir, err)
	}
	sort.Strings(files)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = generator.NewRenderer()
	}

	var written []string
	for _, f := range files {
		var content []byte
		if strings.HasSuffix(f, TemplateSuffix) {
			content, err = renderer.RenderFS(sub, f, opts.Data)
		} else {
			content, err = fs.ReadFile(sub, f)
		}
		if err != nil {
			return written, fmt.Errorf("generate %s: %w", f, err)
		}

		target := path.Join(targetDir, substitutePath(strings.TrimSuffix(f, TemplateSuffix), opts.Data))
		ok, err := writeGenerated(t, target, content, opts.Resolver)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, target)
		}
	}
	return written, nil
}

// substitutePath replaces "__key__" tokens with values from data.
func substitutePath(p string, data map[string]any) string {
	for k, v := range data {
		token := "__" + k + "__"
		if strings.Contains(p, token) {
			p = strings.ReplaceAll(p, token, fmt.Sprint(v))
		}
	}
	return p
}

func writeGenerated(t tree.Store, target string, content []byte, resolver *generator.Resolver) (bool, error) {
	if t.Exists(target) {
		existing, err := t.Read(target)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", target, err)
		}
		if bytes.Equal(existing, content) {
			return false, nil
		}
		resolution, err := resolver.ResolveConflict(target, existing, content)
		if err != nil {
			return false, fmt.Errorf("resolve %s: %w", target, err)
		}
		if resolution == generator.Skip {
			logger.Info("keeping existing file", logger.F("path", target))
			return false, nil
		}
	}
	if err := t.Write(target, content); err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	return true, nil
}
