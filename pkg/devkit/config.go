package devkit

import (
	"strings"

	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// configFilePatterns are the standalone config file names tools look for,
// "*" being the tool name.
var configFilePatterns = []string{
	".*rc",
	".*rc.json",
	".*rc.yml",
	".*rc.yaml",
	".*rc.json5",
	".*rc.js",
	".*rc.cjs",
	"*.config.js",
	"*.config.cjs",
}

// RemoveConfig removes the configuration of a tool and returns it.
//
// The dotted path is first looked up in package.json and deleted there.
// Otherwise the first existing config file for the tool (".<p>rc",
// ".<p>rc.json", ..., "<p>.config.cjs") is deleted and its content returned
// as a string.
func RemoveConfig(t tree.Store, path string) (any, bool) {
	if v, ok := removeFromPackageJSON(t, path); ok {
		return v, true
	}

	for _, pattern := range configFilePatterns {
		file := strings.Replace(pattern, "*", path, 1)
		if !t.Exists(file) {
			continue
		}
		content, err := t.Read(file)
		if err != nil {
			logger.Warn("cannot read config file", logger.F("path", file), logger.Err(err))
			continue
		}
		if err := t.Delete(file); err != nil {
			logger.Warn("cannot delete config file", logger.F("path", file), logger.Err(err))
			continue
		}
		logger.Debug("removed config file", logger.F("path", file))
		return string(content), true
	}
	return nil, false
}

func removeFromPackageJSON(t tree.Store, path string) (any, bool) {
	doc := GetJSONFile(t, PackageJSON)
	if doc == nil {
		return nil, false
	}
	value, ok := jsondoc.Get(doc, path)
	if !ok {
		return nil, false
	}

	UpsertJSONFile(t, PackageJSON, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		jsondoc.Delete(doc, path)
		return doc, nil
	})
	return value, true
}
