package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Authoring errors. Every error the generator returns for bad input is
// marked with one of these, so callers can match with errors.Is.
var (
	ErrMissingName         = errors.New("missing type name")
	ErrUnsupportedKind     = errors.New("unsupported schema kind")
	ErrDuplicateName       = errors.New("duplicate type name")
	ErrAmbiguousReference  = errors.New("ambiguous type reference")
	ErrUnresolvedReference = errors.New("unresolved type reference")
	ErrOutputCollision     = errors.New("output path collision")
	ErrNoSchemas           = errors.New("no schemas found")
)

// Errors collects independent failures so that all of them surface at once.
type Errors []error

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, err := range es {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

func (es Errors) Unwrap() []error {
	return es
}

// Err returns nil for an empty list, the only element for a single error,
// and es otherwise.
func (es Errors) Err() error {
	switch len(es) {
	case 0:
		return nil
	case 1:
		return es[0]
	default:
		return es
	}
}
