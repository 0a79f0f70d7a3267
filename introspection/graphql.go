package introspection

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// UnitFromGraphQL derives a unit from GraphQL SDL. Every named, non built-in
// type becomes one export described the way a validation schema would
// describe the same shape.
func UnitFromGraphQL(name, input string) (*Unit, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return nil, errors.Wrap(err, "load graphql schema")
	}

	names := make([]string, 0, len(schema.Types))
	for typeName, def := range schema.Types {
		if def.BuiltIn || strings.HasPrefix(typeName, "__") {
			continue
		}
		names = append(names, typeName)
	}
	slices.Sort(names)

	unit := &Unit{Version: Version, Source: name}
	for _, typeName := range names {
		desc := definitionDescription(schema.Types[typeName])
		if desc == nil {
			continue
		}
		unit.Exports = append(unit.Exports, &Export{Name: typeName, Schema: desc})
	}

	return unit, nil
}

func definitionDescription(def *ast.Definition) *Description {
	named := func(kind Kind) *Description {
		desc := &Description{
			Type:  kind,
			Flags: &Flags{Label: def.Name, Description: def.Description},
			Metas: []*Meta{{ClassName: def.Name}},
		}
		return desc
	}

	switch def.Kind {
	case ast.Object, ast.InputObject, ast.Interface:
		desc := named(KindObject)
		desc.Keys = Keys{}
		for _, field := range def.Fields {
			fieldDesc := fieldTypeDescription(field.Type)
			if field.Description != "" {
				fieldDesc.Flags.Description = field.Description
			}
			desc.Keys = append(desc.Keys, &Key{Name: field.Name, Schema: fieldDesc})
		}
		return desc
	case ast.Enum:
		desc := named(KindString)
		desc.Flags.Only = true
		for _, v := range def.EnumValues {
			desc.Allow = append(desc.Allow, jsontext.Value(`"`+v.Name+`"`))
		}
		return desc
	case ast.Union:
		desc := named(KindAlternatives)
		for _, member := range def.Types {
			desc.Matches = append(desc.Matches, &Match{Schema: &Description{Type: KindLink, Ref: member}})
		}
		return desc
	case ast.Scalar:
		return named(KindAny)
	default:
		return nil
	}
}

// fieldTypeDescription maps a field type reference. Non-null means required;
// a nullable type is optional and also admits null.
func fieldTypeDescription(t *ast.Type) *Description {
	var desc *Description
	switch {
	case t.Elem != nil:
		desc = &Description{Type: KindArray, Items: []*Description{fieldTypeDescription(t.Elem)}}
	default:
		desc = namedTypeDescription(t.NamedType)
	}

	desc.Flags = &Flags{Presence: PresenceRequired}
	if !t.NonNull {
		desc.Flags.Presence = PresenceOptional
		desc.Allow = append(desc.Allow, jsontext.Value("null"))
	}
	return desc
}

func namedTypeDescription(name string) *Description {
	switch name {
	case "String", "ID":
		return &Description{Type: KindString}
	case "Int", "Float":
		return &Description{Type: KindNumber}
	case "Boolean":
		return &Description{Type: KindBoolean}
	default:
		return &Description{Type: KindLink, Ref: name}
	}
}
