package codegen

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/introspection"
)

// File is the analysis result of one unit, before imports are known.
type File struct {
	Source string
	Path   string
	// Types are sorted by name.
	Types []*Type
	// External are the names referenced by Types but declared elsewhere.
	External []string
	Body     string
}

// Declared returns the names of the types declared in f.
func (f *File) Declared() []string {
	names := make([]string, 0, len(f.Types))
	for _, t := range f.Types {
		names = append(names, t.Name)
	}
	return names
}

// AnalyzeUnit analyses every schema export of unit. It returns nil when the
// unit has no schema to emit, in which case no file must be written for it.
// All failing exports are reported together.
func AnalyzeUnit(settings *config.Settings, logger *zap.Logger, unit *introspection.Unit, outputPath string) (*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		types  []*Type
		errs   Errors
		byName = make(map[string]*introspection.Export)
	)
	for _, export := range unit.Exports.Schemas() {
		typ, err := Analyze(settings, logger, export.Schema, export.Name)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "%s", unit.Source))
			continue
		}
		if typ == nil {
			continue
		}

		// the same definition exported twice is emitted once
		if prev, ok := byName[typ.Name]; ok {
			if reflect.DeepEqual(prev.Schema, export.Schema) {
				continue
			}
			errs = append(errs, errors.Wrapf(ErrDuplicateName, "%s: type %q is declared by both export %q and export %q", unit.Source, typ.Name, prev.Name, export.Name))
			continue
		}
		byName[typ.Name] = export
		types = append(types, typ)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if len(types) == 0 {
		logger.Debug("Skipped - no schemas found", zap.String("source", unit.Source))
		return nil, nil
	}
	logger.Debug("Processing", zap.String("source", unit.Source), zap.Int("types", len(types)))

	slices.SortFunc(types, func(a, b *Type) int {
		return strings.Compare(a.Name, b.Name)
	})

	texts := make([]string, 0, len(types))
	var external []string
	for _, t := range types {
		texts = append(texts, t.Text)
		for _, name := range t.CustomTypes {
			if _, ok := byName[name]; !ok {
				external = append(external, name)
			}
		}
	}
	slices.Sort(external)

	return &File{
		Source:   unit.Source,
		Path:     outputPath,
		Types:    types,
		External: slices.Compact(external),
		Body:     strings.Join(texts, "\n\n") + "\n",
	}, nil
}

// Output is a generated file ready to be written.
type Output struct {
	Path    string
	Content string
}
