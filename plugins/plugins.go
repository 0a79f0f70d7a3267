package plugins

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/schemats/schemats/codegen"
	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/introspection"
	"github.com/schemats/schemats/plugins/importgen"
	"github.com/schemats/schemats/plugins/indexgen"
	"github.com/schemats/schemats/plugins/typegen"
)

// GenerateCode runs the whole pipeline over units and returns every file to
// write, sorted by path. Nothing is returned when any unit fails.
func GenerateCode(ctx context.Context, cfg *config.Config, units []*introspection.Unit, logger *zap.Logger) ([]*codegen.Output, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// typegen
	typeGen := typegen.New(cfg, logger)
	files, err := typeGen.Generate(ctx, units)
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed", typeGen.Name())
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(codegen.ErrNoSchemas, "searched %d sources", len(units))
	}

	// importgen
	importGen := importgen.New(cfg, logger)
	outputs, err := importGen.Resolve(files)
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed", importGen.Name())
	}

	// indexgen
	indexGen := indexgen.New(cfg)
	indexes, err := indexGen.Generate(outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed", indexGen.Name())
	}

	outputs = append(outputs, indexes...)
	slices.SortFunc(outputs, func(a, b *codegen.Output) int {
		return strings.Compare(a.Path, b.Path)
	})
	logger.Debug("generated files", zap.Int("files", len(files)), zap.Int("indexes", len(indexes)))

	return outputs, nil
}
