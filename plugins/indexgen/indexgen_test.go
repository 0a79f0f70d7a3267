package indexgen

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/schemats/schemats/codegen"
	"github.com/schemats/schemats/config"
)

func TestPlugin_Generate(t *testing.T) {
	t.Parallel()

	type args struct {
		indexAllToRoot bool
		paths          []string
	}

	tests := []struct {
		name string
		args args
		want map[string]string
	}{
		{
			name: "ディレクトリごとに index.ts を生成する",
			args: args{
				paths: []string{"gen/user.ts", "gen/address.d.ts", "gen/admin/admin.ts"},
			},
			want: map[string]string{
				"gen/index.ts":       "// header\n\nexport * from './address';\nexport * from './user';\n",
				"gen/admin/index.ts": "// header\n\nexport * from './admin';\n",
			},
		},
		{
			name: "indexAllToRoot の場合はルートに一つだけ生成する",
			args: args{
				indexAllToRoot: true,
				paths:          []string{"gen/user.ts", "gen/admin/admin.ts", "gen/admin/group.mts"},
			},
			want: map[string]string{
				"gen/index.ts": "// header\n\nexport * from './admin/admin';\nexport * from './admin/group';\nexport * from './user';\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{
				Output:   config.OutputConfig{Dir: "gen"},
				Settings: config.DefaultSettings(),
			}
			cfg.Settings.FileHeader = "// header"
			cfg.Settings.IndexAllToRoot = tt.args.indexAllToRoot

			outputs := make([]*codegen.Output, 0, len(tt.args.paths))
			for _, p := range tt.args.paths {
				outputs = append(outputs, &codegen.Output{Path: filepath.FromSlash(p)})
			}

			indexes, err := New(cfg).Generate(outputs)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			got := make(map[string]string, len(indexes))
			for _, o := range indexes {
				got[filepath.ToSlash(o.Path)] = o.Content
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}
