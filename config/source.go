package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/cockroachdb/errors"

	"github.com/schemats/schemats/introspection"
)

// SchemaFiles expands the schema patterns into a sorted list of files.
// Patterns may use ** to match any number of directories.
func (c *Config) SchemaFiles() ([]string, error) {
	var files []string
	for _, pattern := range c.Schema {
		matches, err := doublestar.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to glob schema %s", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Newf("schema %s matched no files", pattern)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to stat schema %s", match)
			}
			if info.IsDir() {
				continue
			}
			files = append(files, filepath.Clean(match))
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// LoadUnits loads every schema source unit, from local files or from the endpoint.
func (c *Config) LoadUnits(ctx context.Context) ([]*introspection.Unit, error) {
	if c.Endpoint != nil {
		units, err := endpointUnits(ctx, c.Endpoint)
		if err != nil {
			return nil, errors.Wrap(err, "load remote schema failed")
		}
		return units, nil
	}

	files, err := c.SchemaFiles()
	if err != nil {
		return nil, err
	}

	units := make([]*introspection.Unit, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read schema")
		}
		unit, err := introspection.ParseUnit(file, data)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, nil
}

// OutputPath maps the source of a unit to the path of its generated file.
func (c *Config) OutputPath(source string) (string, error) {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	filename := strings.ReplaceAll(c.Output.Filename, "{name}", name)

	if c.Output.Dir == "" {
		return filepath.Join(filepath.Dir(source), filename), nil
	}

	root := c.Output.SourceRoot
	if root == "" {
		root = "."
	}
	rel, err := filepath.Rel(root, filepath.Dir(source))
	if err != nil {
		return "", errors.Wrapf(err, "source %s", source)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf("source %s is outside of 'output.sourceRoot' %s", source, root)
	}

	return filepath.Join(c.Output.Dir, rel, filename), nil
}
