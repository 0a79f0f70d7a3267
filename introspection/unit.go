package introspection

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
)

// Version is the description document version this package understands.
const Version = 1

// Unit is one schema source: the exported members of a single source file.
type Unit struct {
	Version int     `json:"version,omitzero"`
	Source  string  `json:"source,omitempty"`
	Exports Exports `json:"exports"`
}

// Export is one exported member of a unit. Schema is nil when the member
// is not a schema description.
type Export struct {
	Name   string
	Schema *Description
}

// Exports keeps export order. Exports may be written as an object keyed by
// export name, or as an array of anonymous exports.
type Exports []*Export

func (es *Exports) UnmarshalJSON(b []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(b))
	switch dec.PeekKind() {
	case 'n':
		*es = nil
		return nil
	case '{', '[':
	default:
		return errors.Newf("decode exports: want object or array, got %v", dec.PeekKind())
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return errors.Wrap(err, "decode exports")
	}
	named := tok.Kind() == '{'
	end := jsontext.Kind(']')
	if named {
		end = '}'
	}

	out := Exports{}
	for i := 0; dec.PeekKind() != end; i++ {
		var name string
		if named {
			tok, err := dec.ReadToken()
			if err != nil {
				return errors.Wrap(err, "decode exports")
			}
			name = tok.String()
		}
		raw, err := dec.ReadValue()
		if err != nil {
			return errors.Wrapf(err, "decode export %d", i)
		}
		schema, err := decodeExport(raw)
		if err != nil {
			if named {
				return errors.Wrapf(err, "decode export %q", name)
			}
			return errors.Wrapf(err, "decode export %d", i)
		}
		out = append(out, &Export{Name: name, Schema: schema})
	}
	if _, err := dec.ReadToken(); err != nil {
		return errors.Wrap(err, "decode exports")
	}

	*es = out
	return nil
}

// decodeExport returns nil for values that are not descriptions: anything
// other than an object with a string "type" member.
func decodeExport(raw jsontext.Value) (*Description, error) {
	if raw.Kind() != '{' {
		return nil, nil
	}
	var head struct {
		Type jsontext.Value `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	if head.Type.Kind() != '"' {
		return nil, nil
	}

	var desc Description
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Schemas returns the exports that carry a description.
func (es Exports) Schemas() []*Export {
	var out []*Export
	for _, e := range es {
		if e.Schema != nil {
			out = append(out, e)
		}
	}
	return out
}

// Bundle carries many units in one document, as served by a remote endpoint.
type Bundle struct {
	Version int     `json:"version,omitzero"`
	Units   []*Unit `json:"units"`
}

func checkVersion(v int) error {
	if v != 0 && v != Version {
		return errors.Newf("unsupported description version %d, want %d", v, Version)
	}
	return nil
}

// DecodeUnit decodes a JSON unit document.
func DecodeUnit(data []byte) (*Unit, error) {
	var unit Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, errors.Wrap(err, "decode unit")
	}
	if err := checkVersion(unit.Version); err != nil {
		return nil, err
	}
	return &unit, nil
}

// DecodeBundle decodes a JSON bundle document. Every unit must name its source.
func DecodeBundle(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.Wrap(err, "decode bundle")
	}
	if err := checkVersion(bundle.Version); err != nil {
		return nil, err
	}
	for i, unit := range bundle.Units {
		if unit == nil || unit.Source == "" {
			return nil, errors.Newf("decode bundle: unit %d has no source", i)
		}
		if err := checkVersion(unit.Version); err != nil {
			return nil, errors.Wrapf(err, "unit %s", unit.Source)
		}
	}
	return &bundle, nil
}

// ParseUnit decodes the schema source file filename according to its extension.
// The returned unit's Source is always filename.
func ParseUnit(filename string, data []byte) (*Unit, error) {
	var (
		unit *Unit
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		unit, err = DecodeUnit(data)
	case ".yaml", ".yml":
		var js []byte
		js, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: convert yaml", filename)
		}
		unit, err = DecodeUnit(js)
	case ".graphql", ".graphqls":
		unit, err = UnitFromGraphQL(filename, string(data))
	default:
		return nil, errors.Newf("%s: unsupported schema file extension %q", filename, ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}

	unit.Source = filename
	return unit, nil
}
