package codegen

import (
	"slices"
	"strings"

	"github.com/schemats/schemats/config"
)

type emitter struct {
	settings *config.Settings
}

// Emit renders the root of a definition as an exported declaration:
// an interface for object roots and a type alias for everything else.
// The root must carry its name.
func Emit(settings *config.Settings, c Content) string {
	e := &emitter{settings: settings}
	m := c.meta()

	var b strings.Builder
	b.WriteString(e.jsDoc(m.Name, m.Doc, 0))
	if obj, ok := c.(*Composite); ok && obj.Join == JoinObject {
		b.WriteString("export interface " + m.Name + " " + e.object(obj, 1, true))
		return b.String()
	}
	b.WriteString("export type " + m.Name + " = " + e.render(c, 1) + ";")
	return b.String()
}

// render writes c inline. level is the indentation depth of the members of
// an object rendered at this position.
func (e *emitter) render(c Content, level int) string {
	switch c := c.(type) {
	case *Leaf:
		return c.Text
	case *Composite:
		switch c.Join {
		case JoinList:
			var elem string
			if len(c.Children) > 0 {
				elem = e.member(c.Children[0], JoinList, level)
			}
			return elem + "[]"
		case JoinTuple:
			items := make([]string, 0, len(c.Children))
			for _, child := range c.Children {
				items = append(items, e.render(child, level))
			}
			return "[" + strings.Join(items, ", ") + "]"
		case JoinUnion:
			return e.join(c, " | ", level)
		case JoinIntersection:
			return e.join(c, " & ", level)
		case JoinObject:
			return e.object(c, level, false)
		}
	}
	return ""
}

func (e *emitter) join(c *Composite, sep string, level int) string {
	members := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		members = append(members, e.member(child, c.Join, level))
	}
	return strings.Join(members, sep)
}

// member renders child of a parent joined by parent, parenthesised where
// the operators would otherwise bind differently.
func (e *emitter) member(child Content, parent JoinKind, level int) string {
	child = collapse(child)
	text := e.render(child, level)
	c, ok := child.(*Composite)
	if !ok || len(c.Children) < 2 {
		return text
	}
	if (c.Join == JoinUnion || c.Join == JoinIntersection) && c.Join != parent {
		return "(" + text + ")"
	}
	return text
}

// collapse unwraps unions and intersections of a single member, which
// render exactly as that member.
func collapse(c Content) Content {
	for {
		composite, ok := c.(*Composite)
		if !ok || len(composite.Children) != 1 || (composite.Join != JoinUnion && composite.Join != JoinIntersection) {
			return c
		}
		c = composite.Children[0]
	}
}

func (e *emitter) object(c *Composite, level int, root bool) string {
	if len(c.Children) == 0 {
		if root {
			return "{}"
		}
		return "object"
	}

	children := slices.Clone(c.Children)
	if e.settings.SortPropertiesByName {
		slices.SortStableFunc(children, func(a, b Content) int {
			return compareProperties(a.meta().Name, b.meta().Name)
		})
	}

	lines := make([]string, 0, len(children))
	for _, child := range children {
		m := child.meta()
		modifier := ""
		if !m.Required {
			modifier = "?"
		}
		lines = append(lines, e.jsDoc(m.Name, m.Doc, level)+e.indent(level)+propertyKey(m.Name)+modifier+": "+e.render(child, level+1)+";")
	}

	return "{\n" + strings.Join(lines, "\n") + "\n" + e.indent(level-1) + "}"
}

// compareProperties orders by name and keeps the index signature last.
func compareProperties(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == indexSignature:
		return 1
	case b == indexSignature:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func (e *emitter) indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(e.settings.IndentationCharacters, level)
}

// commentReplacer keeps text from closing a doc comment early.
var commentReplacer = strings.NewReplacer("*/", `*\/`)

func (e *emitter) jsDoc(name string, doc *Doc, level int) string {
	if name == indexSignature || (!e.settings.CommentEverything && doc.IsZero()) {
		return ""
	}

	var description, example string
	if doc != nil {
		description, example = doc.Description, doc.Example
	}
	if description == "" && e.settings.CommentEverything {
		description = name
	}

	lines := []string{"/**"}
	if description != "" {
		for _, line := range strings.Split(commentReplacer.Replace(description), "\n") {
			lines = append(lines, strings.TrimRight(" * "+line, " "))
		}
	}
	if example != "" {
		lines = append(lines, " * @example "+commentReplacer.Replace(example))
	}
	lines = append(lines, " */")

	indent := e.indent(level)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(indent + line + "\n")
	}
	return b.String()
}
