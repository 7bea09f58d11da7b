package devkit

import (
	"bytes"
	"path"
	"strings"

	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// FormatIndent is the indentation of formatted JSON files.
const FormatIndent = "  "

// FormatFiles pretty-prints every created or updated JSON file in the tree.
// Files ending in ".json" and rc files (".czrc", ".lintstagedrc"...) that
// contain JSON qualify. Other files are left alone.
func FormatFiles(t *tree.Tree) error {
	for _, c := range t.Changes() {
		if c.Type == tree.Delete || !formattable(c.Path) {
			continue
		}

		v, err := jsondoc.ParseValue(c.Content)
		if err != nil {
			if strings.HasSuffix(c.Path, ".json") {
				logger.Warn("cannot format invalid JSON file", logger.F("path", c.Path), logger.Err(err))
			}
			continue
		}
		out, err := jsondoc.MarshalIndent(v, FormatIndent)
		if err != nil {
			logger.Warn("cannot format JSON file", logger.F("path", c.Path), logger.Err(err))
			continue
		}
		if bytes.Equal(out, c.Content) {
			continue
		}
		if err := t.Write(c.Path, out); err != nil {
			return err
		}
	}
	return nil
}

func formattable(p string) bool {
	base := path.Base(p)
	if strings.HasSuffix(base, ".json") {
		return true
	}
	return strings.HasPrefix(base, ".") && strings.HasSuffix(base, "rc")
}
