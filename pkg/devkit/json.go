package devkit

import (
	"errors"
	"fmt"

	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// Mutator returns the new content of a JSON document. It may modify and
// return doc.
type Mutator func(doc *jsondoc.Object) (*jsondoc.Object, error)

// GetJSONFile returns the parsed object stored at path, or nil when the file
// does not exist, is empty or is not a JSON object.
func GetJSONFile(t tree.Store, path string) *jsondoc.Object {
	if !t.Exists(path) {
		return nil
	}
	data, err := t.Read(path)
	if err != nil || len(data) == 0 {
		return nil
	}
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil
	}
	return doc
}

// UpsertJSONFile creates or updates the JSON object at path with mutator and
// returns the written document.
//
// A missing file starts as an empty object. When the file exists but is not
// a JSON object, or when the mutator fails, returns a nil document or the
// result cannot be serialized, nothing is written and nil is returned.
func UpsertJSONFile(t tree.Store, path string, mutator Mutator) *jsondoc.Object {
	log := logger.Default().WithFields(logger.F("path", path))

	doc := jsondoc.NewObject()
	if t.Exists(path) {
		data, err := t.Read(path)
		if err != nil {
			log.Warn("cannot read JSON file", logger.Err(err))
			return nil
		}
		if doc, err = jsondoc.Parse(data); err != nil {
			log.Warn("skipping file that is not a JSON object", logger.Err(err))
			return nil
		}
	}

	updated, err := applyMutator(mutator, doc)
	if err != nil {
		log.Warn("JSON update failed", logger.Err(err))
		return nil
	}
	if updated == nil {
		log.Warn("JSON update returned no document")
		return nil
	}

	out, err := jsondoc.Marshal(updated)
	if err != nil {
		log.Warn("cannot serialize JSON document", logger.Err(err))
		return nil
	}
	if err := t.Write(path, out); err != nil {
		log.Warn("cannot write JSON file", logger.Err(err))
		return nil
	}

	log.Debug("JSON file updated")
	return updated
}

// applyMutator turns a panicking mutator into an error.
func applyMutator(mutator Mutator, doc *jsondoc.Object) (result *jsondoc.Object, err error) {
	if mutator == nil {
		return nil, errors.New("nil mutator")
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("mutator panicked: %v", r)
		}
	}()
	return mutator(doc)
}
