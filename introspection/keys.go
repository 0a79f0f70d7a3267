package introspection

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Key is one declared property of an object description.
type Key struct {
	Name   string
	Schema *Description
}

// Keys keeps object properties in declaration order, which a Go map would lose.
// A nil Keys means the object declared no keys at all.
type Keys []*Key

func (ks *Keys) UnmarshalJSON(b []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(b))
	if dec.PeekKind() == 'n' {
		*ks = nil
		return nil
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return errors.Wrap(err, "decode keys")
	}
	if tok.Kind() != '{' {
		return errors.Newf("decode keys: want object, got %v", tok.Kind())
	}

	out := Keys{}
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return errors.Wrap(err, "decode keys")
		}
		// the token is invalidated by the next decoder call
		name := tok.String()
		raw, err := dec.ReadValue()
		if err != nil {
			return errors.Wrapf(err, "decode key %q", name)
		}
		var schema Description
		if err := json.Unmarshal(raw, &schema); err != nil {
			return errors.Wrapf(err, "decode key %q", name)
		}
		out = append(out, &Key{Name: name, Schema: &schema})
	}
	if _, err := dec.ReadToken(); err != nil {
		return errors.Wrap(err, "decode keys")
	}

	*ks = out
	return nil
}

func (ks Keys) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return nil, err
	}
	for _, k := range ks {
		if err := enc.WriteToken(jsontext.String(k.Name)); err != nil {
			return nil, err
		}
		v, err := json.Marshal(k.Schema)
		if err != nil {
			return nil, errors.Wrapf(err, "encode key %q", k.Name)
		}
		if err := enc.WriteValue(v); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// Lookup returns the schema declared under name.
func (ks Keys) Lookup(name string) (*Description, bool) {
	for _, k := range ks {
		if k.Name == name {
			return k.Schema, true
		}
	}
	return nil, false
}
