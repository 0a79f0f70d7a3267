// Package indexgen は生成したファイルを再エクスポートする index.ts (バレルファイル) を生成する。
//
// 通常は出力先ディレクトリごとに一つ、indexAllToRoot の場合は出力ルートに一つだけ生成する。
package indexgen

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/schemats/schemats/codegen"
	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/plugins/importgen"
)

type Plugin struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Plugin {
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string {
	return "indexgen"
}

// Generate returns the index files re-exporting outputs, sorted by path.
func (p *Plugin) Generate(outputs []*codegen.Output) ([]*codegen.Output, error) {
	members := make(map[string][]string)
	for _, o := range outputs {
		dir := filepath.Dir(o.Path)
		if p.cfg.Settings.IndexAllToRoot {
			dir = filepath.Clean(p.cfg.Output.Dir)
		}
		members[dir] = append(members[dir], o.Path)
	}

	indexes := make([]*codegen.Output, 0, len(members))
	for _, dir := range slices.Sorted(maps.Keys(members)) {
		lines := make([]string, 0, len(members[dir]))
		for _, path := range members[dir] {
			specifier, err := codegen.Specifier(dir, codegen.TrimExtension(path))
			if err != nil {
				return nil, errors.Wrapf(err, "index %s", dir)
			}
			lines = append(lines, "export * from "+codegen.StringLiteral(specifier)+";")
		}
		slices.Sort(lines)

		body := strings.Join(lines, "\n") + "\n"
		indexes = append(indexes, &codegen.Output{
			Path:    filepath.Join(dir, importgen.IndexFilename),
			Content: importgen.Content(p.cfg.Settings.FileHeader, nil, body),
		})
	}

	return indexes, nil
}
