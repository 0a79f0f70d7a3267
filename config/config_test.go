package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	type args struct {
		file string
	}

	type want struct {
		config      *Config
		err         string
		errContains string
	}

	tests := []struct {
		name       string
		args       args
		want       want
		skipOnGOOS string // このテストをスキップするOS (例: "windows", "!windows")
	}{
		{
			name: "設定ファイルが存在しない場合はエラー",
			args: args{
				file: "doesnotexist.yml",
			},
			want: want{
				err: "unable to read config: open doesnotexist.yml: no such file or directory",
			},
			skipOnGOOS: "windows",
		},
		{
			name: "不正な形式の設定ファイルはエラー",
			args: args{
				file: "testdata/cfg/malformedconfig.yml",
			},
			want: want{
				errContains: "unable to parse config",
			},
		},
		{
			name: "schemaとendpointが両方指定されている場合はエラー",
			args: args{
				file: "testdata/cfg/schema_endpoint.yml",
			},
			want: want{
				err: "'schema' and 'endpoint' both specified. Use schema to load from local files, use endpoint to load from a remote server",
			},
		},
		{
			name: "schemaとendpointのどちらも指定されていない場合はエラー",
			args: args{
				file: "testdata/cfg/no_source.yml",
			},
			want: want{
				err: "neither 'schema' nor 'endpoint' specified. Use schema to load from local files, use endpoint to load from a remote server",
			},
		},
		{
			name: "endpointにurlが無い場合はエラー",
			args: args{
				file: "testdata/cfg/endpoint_no_url.yml",
			},
			want: want{
				err: "'endpoint.url' is required",
			},
		},
		{
			name: "不明なキーが含まれている場合はエラー",
			args: args{
				file: "testdata/cfg/unknownkeys.yml",
			},
			want: want{
				errContains: `unknown field "unknown"`,
			},
		},
		{
			name: "出力ファイル名の拡張子がTypeScriptでない場合はエラー",
			args: args{
				file: "testdata/cfg/bad_filename.yml",
			},
			want: want{
				err: `'output.filename' must end with one of .ts .d.ts .mts .cts, got "{name}.js"`,
			},
		},
		{
			name: "indexAllToRootにはoutput.dirが必要",
			args: args{
				file: "testdata/cfg/index_all_to_root.yml",
			},
			want: want{
				err: "'settings.indexAllToRoot' requires 'output.dir'",
			},
		},
		{
			name: "省略した項目にはデフォルト値が入る",
			args: args{
				file: "testdata/cfg/minimal.yml",
			},
			want: want{
				config: &Config{
					Schema: []string{"testdata/cfg/glob/foo/*.json"},
					Output: OutputConfig{
						SourceRoot: ".",
						Filename:   "{name}.ts",
					},
					Settings: Settings{
						FileHeader:            DefaultFileHeader,
						SortPropertiesByName:  true,
						IndentationCharacters: "  ",
					},
				},
			},
		},
		{
			name: "すべての設定を正しく読み込めることを確認する",
			args: args{
				file: "testdata/cfg/full.yml",
			},
			want: want{
				config: &Config{
					Schema: []string{"testdata/cfg/glob/**/*"},
					Output: OutputConfig{
						Dir:        "gen",
						SourceRoot: "testdata/cfg/glob",
						Filename:   "{name}.d.ts",
					},
					Concurrency: 4,
					Settings: Settings{
						UseLabelAsInterfaceName: true,
						DefaultToRequired:       true,
						Debug:                   true,
						FileHeader:              "// generated",
						SortPropertiesByName:    false,
						IndexAllToRoot:          true,
						CommentEverything:       true,
						IndentationCharacters:   "\t",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// skipOnGOOSのチェック
			if tt.skipOnGOOS != "" {
				if tt.skipOnGOOS[0] == '!' {
					if runtime.GOOS != tt.skipOnGOOS[1:] {
						t.Skipf("Skipping test on %s", runtime.GOOS)
					}
				} else if runtime.GOOS == tt.skipOnGOOS {
					t.Skipf("Skipping test on %s", runtime.GOOS)
				}
			}

			got, err := Load(tt.args.file)

			// エラーチェック
			switch {
			case tt.want.err != "":
				if err == nil {
					t.Fatalf("error = nil, want %q", tt.want.err)
				}
				if err.Error() != tt.want.err {
					t.Errorf("error message = %q, want %q", err.Error(), tt.want.err)
				}
				return
			case tt.want.errContains != "":
				if err == nil || !strings.Contains(err.Error(), tt.want.errContains) {
					t.Errorf("error = %v, want to contain %q", err, tt.want.errContains)
				}
				return
			case err != nil:
				t.Fatalf("error = %v, want nil", err)
			}

			if diff := cmp.Diff(tt.want.config, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestLoad_ExpandEnv(t *testing.T) {
	t.Setenv("SCHEMATS_TEST_OUTPUT_DIR", "generated/types")

	cfg, err := Load("testdata/cfg/env.yml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "generated/types" {
		t.Errorf("output.dir = %q, want %q", cfg.Output.Dir, "generated/types")
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "schemats.yml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".schemats.yaml"), []byte("schema: [a]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfigFile(dir, ConfigFilenames)
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if want := filepath.Join(dir, ".schemats.yaml"); got != want {
		t.Errorf("FindConfigFile() = %s, want %s", got, want)
	}

	if _, err := FindConfigFile(t.TempDir(), ConfigFilenames); err == nil {
		t.Error("FindConfigFile() error = nil, want not found")
	}
}

func TestConfig_SchemaFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		schema     []string
		want       []string
		err        string
		skipOnGOOS string
	}{
		{
			name:   "globパターンでスキーマファイルを読み込めることを確認する（非Windows）",
			schema: []string{"testdata/cfg/glob/**/*"},
			want: []string{
				"testdata/cfg/glob/bar/bar with spaces.yml",
				"testdata/cfg/glob/foo/foo.json",
			},
			skipOnGOOS: "windows",
		},
		{
			name:   "重複したファイルは一つにまとめる",
			schema: []string{"testdata/cfg/glob/foo/*.json", "testdata/cfg/glob/**/foo.json"},
			want: []string{
				filepath.FromSlash("testdata/cfg/glob/foo/foo.json"),
			},
		},
		{
			name:   "一致するファイルが無い場合はエラー",
			schema: []string{"testdata/cfg/nowhere/*.json"},
			err:    "schema testdata/cfg/nowhere/*.json matched no files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.skipOnGOOS != "" && runtime.GOOS == tt.skipOnGOOS {
				t.Skipf("Skipping test on %s", runtime.GOOS)
			}

			cfg := &Config{Schema: tt.schema}
			got, err := cfg.SchemaFiles()
			if tt.err != "" {
				if err == nil || err.Error() != tt.err {
					t.Fatalf("error = %v, want %q", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestConfig_OutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output OutputConfig
		source string
		want   string
		err    bool
	}{
		{
			name:   "出力先が無い場合はソースの隣",
			output: OutputConfig{SourceRoot: ".", Filename: "{name}.ts"},
			source: "src/schemas/user.json",
			want:   "src/schemas/user.ts",
		},
		{
			name:   "ソースルートからの相対パスを保つ",
			output: OutputConfig{Dir: "gen", SourceRoot: "src", Filename: "{name}.ts"},
			source: "src/schemas/admin/user.yml",
			want:   "gen/schemas/admin/user.ts",
		},
		{
			name:   "ファイル名のテンプレート",
			output: OutputConfig{Dir: "gen", SourceRoot: "src", Filename: "{name}.types.d.ts"},
			source: "src/user.schema.json",
			want:   "gen/user.schema.types.d.ts",
		},
		{
			name:   "ソースルートの外はエラー",
			output: OutputConfig{Dir: "gen", SourceRoot: "src", Filename: "{name}.ts"},
			source: "other/user.json",
			err:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Output: tt.output}
			got, err := cfg.OutputPath(filepath.FromSlash(tt.source))
			if tt.err {
				if err == nil {
					t.Fatalf("OutputPath() = %s, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputPath() error = %v", err)
			}
			if diff := cmp.Diff(filepath.FromSlash(tt.want), got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestConfig_LoadUnits(t *testing.T) {
	t.Parallel()

	type args struct {
		responseFile    string
		httpErrorStatus int
	}

	type want struct {
		sources []string
		err     string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "リモートのユニットを読み込める",
			args: args{
				responseFile: "testdata/remote/response_ok.json",
			},
			want: want{
				sources: []string{"src/schemas/user.ts", "src/schemas/constants.ts"},
			},
		},
		{
			name: "sourceの無いユニットはエラー",
			args: args{
				responseFile: "testdata/remote/response_no_source.json",
			},
			want: want{
				err: "load remote schema failed: validation error: decode bundle: unit 0 has no source",
			},
		},
		{
			name: "HTTPエラーを返す",
			args: args{
				httpErrorStatus: http.StatusInternalServerError,
			},
			want: want{
				err: "load remote schema failed: fetch descriptions failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var header http.Header
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				header = r.Header.Clone()
				if tt.args.httpErrorStatus != 0 {
					http.Error(w, "Internal Server Error", tt.args.httpErrorStatus)
					return
				}
				body, err := os.ReadFile(tt.args.responseFile)
				if err != nil {
					t.Errorf("failed to read file %s: %v", tt.args.responseFile, err)
				}
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write(body); err != nil {
					t.Errorf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			configFile := filepath.Join(t.TempDir(), "schemats.yml")
			content := "endpoint:\n  url: " + server.URL + "\n  headers:\n    Authorization:\n      - Bearer token\n"
			if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(configFile)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			units, err := cfg.LoadUnits(t.Context())
			if tt.want.err != "" {
				if err == nil || !strings.HasPrefix(err.Error(), tt.want.err) {
					t.Fatalf("error = %v, want prefix %q", err, tt.want.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadUnits() error = %v", err)
			}

			if got := header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("Authorization header = %q, want %q", got, "Bearer token")
			}
			sources := make([]string, 0, len(units))
			for _, u := range units {
				sources = append(sources, u.Source)
			}
			if diff := cmp.Diff(tt.want.sources, sources); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

func TestConfig_LoadUnits_Local(t *testing.T) {
	t.Parallel()

	cfg, err := Load("testdata/cfg/full.yml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	units, err := cfg.LoadUnits(t.Context())
	if err != nil {
		t.Fatalf("LoadUnits() error = %v", err)
	}

	var names []string
	for _, u := range units {
		for _, e := range u.Exports {
			names = append(names, e.Name)
		}
	}
	if diff := cmp.Diff([]string{"Bar", "Foo"}, names); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	got, err := JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema() error = %v", err)
	}
	for _, s := range []string{`"indentationCharacters"`, `"useLabelAsInterfaceName"`, `"schemats configuration"`} {
		if !strings.Contains(string(got), s) {
			t.Errorf("JSONSchema() does not contain %s", s)
		}
	}
}
