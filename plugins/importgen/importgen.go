// Package importgen はファイル間の型参照を解決し、各ファイルの import 文を組み立てる。
//
// 解決には全ユニットの解析結果が必要なため、typegen がすべて成功した後に一度だけ逐次実行する。
package importgen

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/schemats/schemats/codegen"
	"github.com/schemats/schemats/config"
)

// IndexFilename is the barrel file every import goes through.
const IndexFilename = "index.ts"

type Plugin struct {
	cfg    *config.Config
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{cfg: cfg, logger: logger}
}

func (p *Plugin) Name() string {
	return "importgen"
}

// Import is one import statement.
type Import struct {
	Specifier string
	Names     []string
}

func (i Import) String() string {
	return "import { " + strings.Join(i.Names, ", ") + " } from " + codegen.StringLiteral(i.Specifier) + ";"
}

// Resolve locates the declaring file of every external reference and returns
// the complete content of each file, sorted by path. The files must not be
// modified afterwards.
func (p *Plugin) Resolve(files []*codegen.File) ([]*codegen.Output, error) {
	if err := p.checkPaths(files); err != nil {
		return nil, err
	}

	declaredIn := make(map[string][]*codegen.File)
	referencedBy := make(map[string][]*codegen.File)
	for _, f := range files {
		for _, name := range f.Declared() {
			declaredIn[name] = append(declaredIn[name], f)
		}
		for _, name := range f.External {
			referencedBy[name] = append(referencedBy[name], f)
		}
	}

	var errs codegen.Errors
	for _, name := range slices.Sorted(maps.Keys(declaredIn)) {
		decls := declaredIn[name]
		if len(decls) < 2 {
			continue
		}
		if refs, ok := referencedBy[name]; ok {
			errs = append(errs, errors.Wrapf(codegen.ErrAmbiguousReference, "type %q referenced by %s is declared in more than one file: %s", name, sources(refs), sources(decls)))
			continue
		}
		errs = append(errs, errors.Wrapf(codegen.ErrDuplicateName, "type %q is declared in more than one file: %s", name, sources(decls)))
	}
	for _, name := range slices.Sorted(maps.Keys(referencedBy)) {
		if _, ok := declaredIn[name]; !ok {
			errs = append(errs, errors.Wrapf(codegen.ErrUnresolvedReference, "type %q is not declared in any file, referenced by %s", name, sources(referencedBy[name])))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	outputs := make([]*codegen.Output, 0, len(files))
	for _, f := range files {
		imports, err := p.imports(f, declaredIn)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, &codegen.Output{
			Path:    f.Path,
			Content: Content(p.cfg.Settings.FileHeader, imports, f.Body),
		})
		p.logger.Debug("resolved imports", zap.String("path", f.Path), zap.Int("imports", len(imports)))
	}

	slices.SortFunc(outputs, func(a, b *codegen.Output) int {
		return strings.Compare(a.Path, b.Path)
	})

	return outputs, nil
}

// imports groups the external references of f by the directory they are
// imported from.
func (p *Plugin) imports(f *codegen.File, declaredIn map[string][]*codegen.File) ([]Import, error) {
	bySpecifier := make(map[string][]string)
	for _, name := range f.External {
		target := filepath.Dir(declaredIn[name][0].Path)
		if p.cfg.Settings.IndexAllToRoot {
			target = p.cfg.Output.Dir
		}
		specifier, err := codegen.Specifier(filepath.Dir(f.Path), target)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: import %s", f.Source, name)
		}
		bySpecifier[specifier] = append(bySpecifier[specifier], name)
	}

	imports := make([]Import, 0, len(bySpecifier))
	for _, specifier := range slices.Sorted(maps.Keys(bySpecifier)) {
		names := bySpecifier[specifier]
		slices.Sort(names)
		imports = append(imports, Import{Specifier: specifier, Names: names})
	}
	return imports, nil
}

// checkPaths rejects units that would overwrite each other or an index file.
func (p *Plugin) checkPaths(files []*codegen.File) error {
	var errs codegen.Errors
	bySource := make(map[string]string)
	for _, f := range files {
		if filepath.Base(f.Path) == IndexFilename {
			errs = append(errs, errors.Wrapf(codegen.ErrOutputCollision, "%s: output %s is reserved for the index file", f.Source, f.Path))
			continue
		}
		if prev, ok := bySource[f.Path]; ok {
			errs = append(errs, errors.Wrapf(codegen.ErrOutputCollision, "%s and %s are both generated to %s", prev, f.Source, f.Path))
			continue
		}
		bySource[f.Path] = f.Source
	}
	return errs.Err()
}

// Content assembles a generated file.
func Content(header string, imports []Import, body string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n\n")
	}
	for _, i := range imports {
		b.WriteString(i.String() + "\n")
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String()
}

func sources(files []*codegen.File) string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Source)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
