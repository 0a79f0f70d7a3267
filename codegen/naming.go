package codegen

import (
	"regexp"
	"strings"

	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/introspection"
)

// TypeName returns the declared name of desc with all whitespace removed.
// The name is the label when UseLabelAsInterfaceName is set and the last
// className meta otherwise. fromMeta reports the latter.
func TypeName(settings *config.Settings, desc *introspection.Description) (name string, fromMeta bool) {
	if settings.UseLabelAsInterfaceName {
		return stripWhitespace(desc.Label()), false
	}
	name = stripWhitespace(desc.ClassName())
	return name, name != ""
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

var identifierRegexp = regexp.MustCompile(`^[$A-Za-z_][$0-9A-Za-z_]*$`)

// propertyKey quotes name unless it is a valid identifier.
func propertyKey(name string) string {
	if name == indexSignature || identifierRegexp.MatchString(name) {
		return name
	}
	return StringLiteral(name)
}
