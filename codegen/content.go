package codegen

import (
	"slices"
)

// JoinKind is how a Composite combines its children.
type JoinKind int

const (
	JoinList JoinKind = iota + 1
	JoinTuple
	JoinUnion
	JoinIntersection
	JoinObject
)

func (k JoinKind) String() string {
	switch k {
	case JoinList:
		return "list"
	case JoinTuple:
		return "tuple"
	case JoinUnion:
		return "union"
	case JoinIntersection:
		return "intersection"
	case JoinObject:
		return "object"
	default:
		return "unknown"
	}
}

type Doc struct {
	Description string
	Example     string
}

func (d *Doc) IsZero() bool {
	return d == nil || (d.Description == "" && d.Example == "")
}

// Meta is carried by every content node. Name and Required are only
// meaningful on object properties and on the root of a definition.
type Meta struct {
	Name     string
	Required bool
	Doc      *Doc
}

// Content is a node of the intermediate type tree: either *Composite or *Leaf.
type Content interface {
	meta() *Meta
	content()
}

// Composite joins ordered children.
type Composite struct {
	Meta
	Join     JoinKind
	Children []Content
}

// Leaf is literal type text and the named types that text refers to.
type Leaf struct {
	Meta
	Text        string
	CustomTypes []string
}

func (c *Composite) meta() *Meta { return &c.Meta }
func (*Composite) content()      {}
func (l *Leaf) meta() *Meta      { return &l.Meta }
func (*Leaf) content()           {}

// MetaOf returns the shared metadata of c.
func MetaOf(c Content) *Meta {
	return c.meta()
}

// CustomTypes returns every named type referenced anywhere below c, sorted
// and without duplicates.
func CustomTypes(c Content) []string {
	var names []string
	var walk func(Content)
	walk = func(c Content) {
		switch c := c.(type) {
		case *Leaf:
			names = append(names, c.CustomTypes...)
		case *Composite:
			for _, child := range c.Children {
				walk(child)
			}
		}
	}
	walk(c)

	slices.Sort(names)
	return slices.Compact(names)
}
