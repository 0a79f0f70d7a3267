package config

import (
	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/invopop/jsonschema"
)

// JSONSchema returns a JSON Schema of the config file, for editor completion.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "schemats configuration"
	schema.Description = "Configuration of the schemats TypeScript declaration generator."

	data, err := json.Marshal(schema, jsontext.WithIndent("  "))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config schema")
	}
	return append(data, '\n'), nil
}
