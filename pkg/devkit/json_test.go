package devkit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
)

func TestGetJSONFile(t *testing.T) {
	tr := newTree(t, map[string]string{
		"valid.json":   `{"a":1}`,
		"invalid.json": `{a}`,
		"array.json":   `[1,2]`,
		"empty.json":   ``,
	})

	assert.Equal(t, `{"a":1}`, marshal(t, devkit.GetJSONFile(tr, "valid.json")))
	assert.Nil(t, devkit.GetJSONFile(tr, "invalid.json"))
	assert.Nil(t, devkit.GetJSONFile(tr, "array.json"))
	assert.Nil(t, devkit.GetJSONFile(tr, "empty.json"))
	assert.Nil(t, devkit.GetJSONFile(tr, "missing.json"))
}

func TestUpsertJSONFile_CreatesMissingFile(t *testing.T) {
	tr := newTree(t, nil)

	doc := devkit.UpsertJSONFile(tr, "config/new.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		doc.Set("a", "b")
		return doc, nil
	})

	require.NotNil(t, doc)
	assert.Equal(t, `{"a":"b"}`, read(t, tr, "config/new.json"))
}

func TestUpsertJSONFile_RoundTrip(t *testing.T) {
	tr := newTree(t, map[string]string{
		"data.json": `{"z":1,"a":{"list":[3,1,2],"nested":true},"m":"x"}`,
	})

	written := devkit.UpsertJSONFile(tr, "data.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		doc.Set("added", []any{"c", "a", "b"})
		return doc, nil
	})

	require.NotNil(t, written)
	back := devkit.GetJSONFile(tr, "data.json")
	assert.True(t, jsondoc.Equal(written, back))
	assert.Equal(t, []string{"z", "a", "m", "added"}, jsondoc.Keys(back))
	assert.Equal(t, `{"z":1,"a":{"list":[3,1,2],"nested":true},"m":"x","added":["c","a","b"]}`, marshal(t, back))
}

func TestUpsertJSONFile_FailingMutatorLeavesFileUntouched(t *testing.T) {
	original := "{\n  \"keep\": [1, 2]\n}\n"
	tr := newTree(t, map[string]string{"data.json": original})

	doc := devkit.UpsertJSONFile(tr, "data.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		doc.Set("keep", "changed")
		return nil, errors.New("boom")
	})

	assert.Nil(t, doc)
	assert.Equal(t, original, read(t, tr, "data.json"))
	assert.Empty(t, tr.Changes())
}

func TestUpsertJSONFile_NilResultLeavesFileUntouched(t *testing.T) {
	original := `{"keep":true}`
	tr := newTree(t, map[string]string{"data.json": original})

	doc := devkit.UpsertJSONFile(tr, "data.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		return nil, nil
	})

	assert.Nil(t, doc)
	assert.Equal(t, original, read(t, tr, "data.json"))
	assert.Empty(t, tr.Changes())
}

func TestUpsertJSONFile_PanickingMutator(t *testing.T) {
	tr := newTree(t, map[string]string{"data.json": `{}`})

	doc := devkit.UpsertJSONFile(tr, "data.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		panic("unexpected")
	})

	assert.Nil(t, doc)
	assert.Empty(t, tr.Changes())
}

func TestUpsertJSONFile_InvalidDocumentIsNotOverwritten(t *testing.T) {
	tr := newTree(t, map[string]string{
		"broken.json": `{"a":`,
		"array.json":  `["a"]`,
	})
	called := false
	mutator := func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		called = true
		return doc, nil
	}

	assert.Nil(t, devkit.UpsertJSONFile(tr, "broken.json", mutator))
	assert.Nil(t, devkit.UpsertJSONFile(tr, "array.json", mutator))
	assert.False(t, called)
	assert.Empty(t, tr.Changes())
}

func TestUpsertJSONFile_UnserializableResult(t *testing.T) {
	tr := newTree(t, map[string]string{"data.json": `{"a":1}`})

	doc := devkit.UpsertJSONFile(tr, "data.json", func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		doc.Set("fn", func() {})
		return doc, nil
	})

	assert.Nil(t, doc)
	assert.Equal(t, `{"a":1}`, read(t, tr, "data.json"))
}
