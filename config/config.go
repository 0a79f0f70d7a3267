package config

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
)

// DefaultFileHeader is prepended to every generated file unless configured otherwise.
const DefaultFileHeader = `/**
 * This file was automatically generated by schemats
 * Do not modify this file manually
 */`

// ConfigFilenames are searched, in order, when no config file is given.
var ConfigFilenames = []string{"schemats.yml", ".schemats.yml", "schemats.yaml", ".schemats.yaml"}

// Config represents the config file.
type Config struct {
	Schema      []string        `yaml:"schema,omitempty" jsonschema:"description=Glob patterns of local schema description files (.json .yaml .yml .graphql .graphqls)"`
	Endpoint    *EndPointConfig `yaml:"endpoint,omitempty" jsonschema:"description=Remote server serving a bundle of schema descriptions"`
	Output      OutputConfig    `yaml:"output,omitempty"`
	Concurrency int             `yaml:"concurrency,omitempty" jsonschema:"description=Number of units analysed in parallel. 0 means GOMAXPROCS,minimum=0"`
	Settings    Settings        `yaml:"settings,omitempty"`
}

// Settings controls how types are named and rendered.
type Settings struct {
	// UseLabelAsInterfaceName names types after their label instead of their className meta.
	UseLabelAsInterfaceName bool `yaml:"useLabelAsInterfaceName"`
	// DefaultToRequired decides requiredness of properties without an explicit presence flag.
	DefaultToRequired bool `yaml:"defaultToRequired"`
	// Debug only adds diagnostics, it never changes the output.
	Debug                bool   `yaml:"debug"`
	FileHeader           string `yaml:"fileHeader"`
	SortPropertiesByName bool   `yaml:"sortPropertiesByName"`
	// IndexAllToRoot writes a single index file in the output directory and
	// imports every cross file reference through it.
	IndexAllToRoot        bool   `yaml:"indexAllToRoot"`
	CommentEverything     bool   `yaml:"commentEverything"`
	IndentationCharacters string `yaml:"indentationCharacters"`
}

// OutputConfig maps schema sources to generated file paths.
type OutputConfig struct {
	// Dir is the output root. Empty means next to each source file.
	Dir        string `yaml:"dir,omitempty"`
	SourceRoot string `yaml:"sourceRoot,omitempty"`
	// Filename may contain {name}, the source base name without extension.
	Filename string `yaml:"filename,omitempty"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers http.Header  `yaml:"headers,omitempty"`
	URL     string       `yaml:"url"`
	Client  *http.Client `yaml:"-" json:"-"`
}

// DefaultSettings returns the settings used for options the config file leaves out.
func DefaultSettings() Settings {
	return Settings{
		FileHeader:            DefaultFileHeader,
		SortPropertiesByName:  true,
		IndentationCharacters: "  ",
	}
}

func defaultConfig() Config {
	return Config{
		Output: OutputConfig{
			SourceRoot: ".",
			Filename:   "{name}.ts",
		},
		Settings: DefaultSettings(),
	}
}

// FindConfigFile returns the first of names that exists in dir.
func FindConfigFile(dir string, names []string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", errors.Wrapf(err, "stat %s", path)
		}
		if info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", errors.Newf("could not find config file in %s, looked for %s", dir, strings.Join(names, ", "))
}

// Load loads and parses the config file.
func Load(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config")
	}

	c := defaultConfig()

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "unable to parse config")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

var outputExtensions = []string{".ts", ".d.ts", ".mts", ".cts"}

func (c *Config) Validate() error {
	if len(c.Schema) > 0 && c.Endpoint != nil {
		return errors.New("'schema' and 'endpoint' both specified. Use schema to load from local files, use endpoint to load from a remote server")
	}

	if len(c.Schema) == 0 && c.Endpoint == nil {
		return errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from local files, use endpoint to load from a remote server")
	}

	if c.Endpoint != nil && c.Endpoint.URL == "" {
		return errors.New("'endpoint.url' is required")
	}

	if c.Concurrency < 0 {
		return errors.Newf("'concurrency' must not be negative, got %d", c.Concurrency)
	}

	if !slices.ContainsFunc(outputExtensions, func(ext string) bool { return strings.HasSuffix(c.Output.Filename, ext) }) {
		return errors.Newf("'output.filename' must end with one of %s, got %q", strings.Join(outputExtensions, " "), c.Output.Filename)
	}

	if c.Settings.IndentationCharacters == "" {
		return errors.New("'settings.indentationCharacters' must not be empty")
	}

	if c.Settings.IndexAllToRoot && c.Output.Dir == "" {
		return errors.New("'settings.indexAllToRoot' requires 'output.dir'")
	}

	return nil
}
