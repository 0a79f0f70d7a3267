// Package typegen は各スキーマユニットを並行に解析し、ユニットごとの型定義ファイルを生成する。
//
// あるユニットの解析が失敗しても他のユニットの解析は止めない。
// すべての失敗はまとめて返され、一つでも失敗があれば後続のインポート解決には進まない。
package typegen

import (
	"context"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/schemats/schemats/codegen"
	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/introspection"
)

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
	return "typegen"
}

// Generate は units を解析し、型を一つ以上持つユニットのファイルだけを units の順で返す。
func (p *Plugin) Generate(ctx context.Context, units []*introspection.Unit) ([]*codegen.File, error) {
	files := make([]*codegen.File, len(units))
	unitErrs := make([]error, len(units))

	// errgroup.WithContext is not used: a failing unit must not cancel its siblings.
	var eg errgroup.Group
	eg.SetLimit(p.limit())
	for i, unit := range units {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				unitErrs[i] = err
				return nil
			}
			outputPath, err := p.cfg.OutputPath(unit.Source)
			if err != nil {
				unitErrs[i] = err
				return nil
			}
			file, err := codegen.AnalyzeUnit(&p.cfg.Settings, p.logger, unit, outputPath)
			if err != nil {
				unitErrs[i] = err
				return nil
			}
			files[i] = file
			return nil
		})
	}
	_ = eg.Wait()

	var errs codegen.Errors
	for _, err := range unitErrs {
		switch err := err.(type) {
		case nil:
		case codegen.Errors:
			errs = append(errs, err...)
		default:
			errs = append(errs, err)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	files = slices.DeleteFunc(files, func(f *codegen.File) bool { return f == nil })
	p.logger.Debug("analysed units", zap.Int("units", len(units)), zap.Int("files", len(files)))

	return files, nil
}

func (p *Plugin) limit() int {
	if p.cfg.Concurrency > 0 {
		return p.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
