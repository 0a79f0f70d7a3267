package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/schemats/schemats/introspection"
)

var stringLiteralReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// StringLiteral renders s as a single quoted string literal.
func StringLiteral(s string) string {
	return "'" + stringLiteralReplacer.Replace(s) + "'"
}

// literal renders a JSON scalar as a literal type.
func literal(v jsontext.Value) (string, error) {
	switch v.Kind() {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return StringLiteral(s), nil
	case '0', 't', 'f', 'n':
		return strings.TrimSpace(string(v)), nil
	default:
		return "", errors.Newf("value %s cannot be a literal type", v)
	}
}

// coveredBy reports whether a literal of JSON kind k is already a member of base.
func coveredBy(k jsontext.Kind, base introspection.Kind) bool {
	switch base {
	case introspection.KindAny:
		return true
	case introspection.KindString:
		return k == '"'
	case introspection.KindNumber:
		return k == '0'
	case introspection.KindBoolean:
		return k == 't' || k == 'f'
	default:
		return false
	}
}

// example renders an example value for a doc comment. Strings are written as is.
func example(v jsontext.Value) string {
	if v.Kind() == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(v))
}
