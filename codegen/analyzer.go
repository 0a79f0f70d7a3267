package codegen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/introspection"
)

// indexSignature is the property name of the catch-all member added to
// objects that allow unknown keys.
const indexSignature = "[x: string]"

var primitives = map[introspection.Kind]string{
	introspection.KindAny:      "any",
	introspection.KindString:   "string",
	introspection.KindNumber:   "number",
	introspection.KindBoolean:  "boolean",
	introspection.KindDate:     "Date",
	introspection.KindBinary:   "Buffer",
	introspection.KindSymbol:   "symbol",
	introspection.KindFunction: "((...args: any[]) => any)",
}

// Type is one analysed definition, rendered and ready to be placed in a file.
type Type struct {
	Name    string
	Content Content
	// CustomTypes are the named types Content refers to, excluding Name itself.
	CustomTypes []string
	Text        string
}

type analyzer struct {
	settings *config.Settings
	logger   *zap.Logger
	self     string
}

// Analyze converts the exported definition desc into a named type.
// exportName is used when desc declares no name of its own.
// A nil Type without error means the definition has nothing to emit.
func Analyze(settings *config.Settings, logger *zap.Logger, desc *introspection.Description, exportName string) (*Type, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	name, _ := TypeName(settings, desc)
	if name == "" {
		name = stripWhitespace(exportName)
	}
	if name == "" {
		return nil, missingNameError(settings, desc)
	}

	if settings.Debug && strings.HasSuffix(strings.ToLower(name), "schema") {
		logger.Debug("type name ends with schema", zap.String("type", name), zap.String("recommendation", recommendation(settings, name)))
	}

	a := &analyzer{settings: settings, logger: logger, self: name}
	content, err := a.analyze(desc, name, true)
	if err != nil {
		return nil, err
	}
	if content == nil {
		logger.Debug("definition has no emittable type", zap.String("type", name))
		return nil, nil
	}
	content.meta().Name = name

	customTypes := slices.DeleteFunc(CustomTypes(content), func(n string) bool { return n == name })

	return &Type{
		Name:        name,
		Content:     content,
		CustomTypes: customTypes,
		Text:        Emit(settings, content),
	}, nil
}

func missingNameError(settings *config.Settings, desc *introspection.Description) error {
	details, err := json.Marshal(desc)
	if err != nil {
		details = []byte(err.Error())
	}

	annotation, hint := ".meta({className:''})", `add a "metas" entry with a "className"`
	if settings.UseLabelAsInterfaceName {
		annotation, hint = ".label('')", `add "flags.label"`
	}

	return errors.WithHint(
		errors.Mark(errors.Newf(`At least one "object" does not have %s. Details: %s`, annotation, string(details)), ErrMissingName),
		hint,
	)
}

func recommendation(settings *config.Settings, name string) string {
	short := strings.Replace(name, "Schema", "", 1)
	if settings.UseLabelAsInterfaceName {
		return fmt.Sprintf("It is recommended you update the schema '%s' similar to: %s = Joi.object().label('%s')", name, name, short)
	}
	return fmt.Sprintf("It is recommended you update the schema '%s' similar to: %s = Joi.object().meta({className:'%s'})", name, name, short)
}

// analyze returns nil Content when desc has no emittable type.
func (a *analyzer) analyze(desc *introspection.Description, path string, root bool) (Content, error) {
	if desc == nil {
		return nil, nil
	}
	if !desc.Type.IsValid() {
		return nil, errors.Wrapf(ErrUnsupportedKind, "%s: %q", path, desc.Type)
	}
	if desc.Presence() == introspection.PresenceForbidden {
		return nil, nil
	}

	meta := Meta{Required: a.required(desc), Doc: docOf(desc)}

	// Named nodes below the root are declared on their own and only referenced here.
	if !root {
		if name, fromMeta := TypeName(a.settings, desc); name != "" && (fromMeta || desc.Type.IsCompound()) {
			ref := &Leaf{Meta: meta, Text: name, CustomTypes: []string{name}}
			if desc.Only() {
				// the referenced declaration already is the literal set
				return ref, nil
			}
			return a.withAllowed(desc, ref, path)
		}
	}

	var (
		content Content
		err     error
	)
	switch desc.Type {
	case introspection.KindObject:
		content, err = a.object(desc, path)
	case introspection.KindArray:
		content, err = a.array(desc, path)
	case introspection.KindAlternatives:
		content, err = a.alternatives(desc, path)
	case introspection.KindLink:
		content, err = a.link(desc, path)
	default:
		content = &Leaf{Text: primitives[desc.Type]}
	}
	if err != nil || content == nil {
		return nil, err
	}

	*content.meta() = meta
	return a.withAllowed(desc, content, path)
}

func (a *analyzer) required(desc *introspection.Description) bool {
	switch desc.Presence() {
	case introspection.PresenceRequired:
		return true
	case introspection.PresenceOptional:
		return false
	default:
		return a.settings.DefaultToRequired
	}
}

func docOf(desc *introspection.Description) *Doc {
	doc := &Doc{Description: desc.Doc()}
	if len(desc.Examples) > 0 {
		doc.Example = example(desc.Examples[0])
	}
	if doc.IsZero() {
		return nil
	}
	return doc
}

func (a *analyzer) object(desc *introspection.Description, path string) (Content, error) {
	c := &Composite{Join: JoinObject}
	for _, key := range desc.Keys {
		child, err := a.analyze(key.Schema, path+"."+key.Name, false)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		child.meta().Name = key.Name
		c.Children = append(c.Children, child)
	}

	if desc.Unknown() {
		c.Children = append(c.Children, &Leaf{Meta: Meta{Name: indexSignature, Required: true}, Text: "any"})
	}

	return c, nil
}

func (a *analyzer) array(desc *introspection.Description, path string) (Content, error) {
	if len(desc.Ordered) > 0 {
		children, err := a.members(desc.Ordered, path+".ordered")
		if err != nil {
			return nil, err
		}
		return &Composite{Join: JoinTuple, Children: children}, nil
	}

	items, err := a.members(desc.Items, path+".items")
	if err != nil {
		return nil, err
	}

	var elem Content
	switch len(items) {
	case 0:
		elem = &Leaf{Text: primitives[introspection.KindAny]}
	case 1:
		elem = items[0]
	default:
		elem = &Composite{Join: JoinUnion, Children: items}
	}

	return &Composite{Join: JoinList, Children: []Content{elem}}, nil
}

func (a *analyzer) alternatives(desc *introspection.Description, path string) (Content, error) {
	children, err := a.members(desc.Branches(), path+".matches")
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		a.logger.Debug("alternatives have no emittable branch", zap.String("path", path))
		return nil, nil
	}

	join := JoinUnion
	if desc.MatchMode() == introspection.MatchAll {
		join = JoinIntersection
	}

	return &Composite{Join: join, Children: children}, nil
}

// members analyses unnamed members of a tuple, list or union. Empty members
// are dropped.
func (a *analyzer) members(descs []*introspection.Description, path string) ([]Content, error) {
	var children []Content
	for i, desc := range descs {
		child, err := a.analyze(desc, fmt.Sprintf("%s[%d]", path, i), false)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		*child.meta() = Meta{}
		children = append(children, child)
	}
	return children, nil
}

func (a *analyzer) link(desc *introspection.Description, path string) (Content, error) {
	ref := stripWhitespace(strings.TrimPrefix(desc.Ref, "#"))
	if ref == "" {
		return nil, errors.Wrapf(ErrUnresolvedReference, "%s: link has no ref", path)
	}
	return &Leaf{Text: ref, CustomTypes: []string{ref}}, nil
}

// withAllowed applies the allowed values of desc to base. With the only flag
// the values replace base; otherwise values base does not already cover are
// added as union members.
func (a *analyzer) withAllowed(desc *introspection.Description, base Content, path string) (Content, error) {
	if len(desc.Allow) == 0 {
		return base, nil
	}

	var literals []Content
	for i, v := range desc.Allow {
		if !desc.Only() && coveredBy(v.Kind(), desc.Type) {
			continue
		}
		text, err := literal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.allow[%d]", path, i)
		}
		literals = append(literals, &Leaf{Text: text})
	}

	meta := *base.meta()
	if desc.Only() {
		if len(literals) == 1 {
			*literals[0].meta() = meta
			return literals[0], nil
		}
		return &Composite{Meta: meta, Join: JoinUnion, Children: literals}, nil
	}
	if len(literals) == 0 {
		return base, nil
	}

	*base.meta() = Meta{}
	children := []Content{base}
	if c, ok := base.(*Composite); ok && c.Join == JoinUnion {
		children = c.Children
	}

	return &Composite{Meta: meta, Join: JoinUnion, Children: append(children, literals...)}, nil
}
