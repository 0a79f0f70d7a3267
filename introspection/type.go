package introspection

import (
	"github.com/go-json-experiment/json/jsontext"
)

// Kind is the type tag of a description node.
type Kind string

const (
	KindAny          Kind = "any"
	KindString       Kind = "string"
	KindNumber       Kind = "number"
	KindBoolean      Kind = "boolean"
	KindDate         Kind = "date"
	KindBinary       Kind = "binary"
	KindSymbol       Kind = "symbol"
	KindFunction     Kind = "function"
	KindObject       Kind = "object"
	KindArray        Kind = "array"
	KindAlternatives Kind = "alternatives"
	KindLink         Kind = "link"
)

var kinds = map[Kind]struct{}{
	KindAny:          {},
	KindString:       {},
	KindNumber:       {},
	KindBoolean:      {},
	KindDate:         {},
	KindBinary:       {},
	KindSymbol:       {},
	KindFunction:     {},
	KindObject:       {},
	KindArray:        {},
	KindAlternatives: {},
	KindLink:         {},
}

// IsValid reports whether k belongs to the closed set of kinds.
func (k Kind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

// IsCompound reports whether nodes of kind k have child descriptions.
func (k Kind) IsCompound() bool {
	switch k {
	case KindObject, KindArray, KindAlternatives:
		return true
	default:
		return false
	}
}

type Presence string

const (
	PresenceRequired  Presence = "required"
	PresenceOptional  Presence = "optional"
	PresenceForbidden Presence = "forbidden"
)

// MatchAll makes an alternatives node require every branch.
const MatchAll = "all"

type Flags struct {
	Presence    Presence `json:"presence,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Only        bool     `json:"only,omitzero"`
	Unknown     bool     `json:"unknown,omitzero"`
	Match       string   `json:"match,omitempty"`
}

type Meta struct {
	ClassName string `json:"className,omitempty"`
}

// Match is one branch of an alternatives node. Either Schema is set,
// or the conditional pair Then/Otherwise.
type Match struct {
	Schema    *Description `json:"schema,omitempty"`
	Then      *Description `json:"then,omitempty"`
	Otherwise *Description `json:"otherwise,omitempty"`
}

// Description is one node of a schema's self description.
type Description struct {
	Type     Kind             `json:"type"`
	Flags    *Flags           `json:"flags,omitempty"`
	Metas    []*Meta          `json:"metas,omitempty"`
	Keys     Keys             `json:"keys,omitempty"`
	Items    []*Description   `json:"items,omitempty"`
	Ordered  []*Description   `json:"ordered,omitempty"`
	Matches  []*Match         `json:"matches,omitempty"`
	Allow    []jsontext.Value `json:"allow,omitempty"`
	Examples []jsontext.Value `json:"examples,omitempty"`
	Ref      string           `json:"ref,omitempty"`
}

func (d *Description) Presence() Presence {
	if d.Flags == nil {
		return ""
	}
	return d.Flags.Presence
}

func (d *Description) Label() string {
	if d.Flags == nil {
		return ""
	}
	return d.Flags.Label
}

func (d *Description) Doc() string {
	if d.Flags == nil {
		return ""
	}
	return d.Flags.Description
}

func (d *Description) Only() bool {
	return d.Flags != nil && d.Flags.Only
}

func (d *Description) Unknown() bool {
	return d.Flags != nil && d.Flags.Unknown
}

func (d *Description) MatchMode() string {
	if d.Flags == nil {
		return ""
	}
	return d.Flags.Match
}

// ClassName returns the last non-empty className meta.
func (d *Description) ClassName() string {
	var className string
	for _, meta := range d.Metas {
		if meta != nil && meta.ClassName != "" {
			className = meta.ClassName
		}
	}
	return className
}

// Branches returns the alternatives' candidate schemas in declaration order.
// A conditional match contributes both its then and otherwise schemas.
func (d *Description) Branches() []*Description {
	var branches []*Description
	for _, m := range d.Matches {
		if m == nil {
			continue
		}
		if m.Schema != nil {
			branches = append(branches, m.Schema)
			continue
		}
		if m.Then != nil {
			branches = append(branches, m.Then)
		}
		if m.Otherwise != nil {
			branches = append(branches, m.Otherwise)
		}
	}
	return branches
}
