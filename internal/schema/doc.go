// Package schema validates recipe options.
//
// Each recipe ships a JSON Schema written in YAML under schemas/. Schemas are
// compiled once with gojsonschema and can also fill in declared defaults:
//
//	opts, _ := schema.ApplyDefaults("gitlint", map[string]any{"scopes": "api"})
//	res, err := schema.Validate("gitlint", opts)
//	if err == nil && !res.Valid() {
//		return res.Errors
//	}
package schema
