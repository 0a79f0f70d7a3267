package writer

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/schemats/schemats/codegen"
)

// Write persists outputs, creating directories as needed.
func Write(outputs []*codegen.Output) error {
	dirs := make(map[string]bool)
	for _, o := range outputs {
		dir := filepath.Dir(o.Path)
		if !dirs[dir] {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create directory %s", dir)
			}
			dirs[dir] = true
		}
		if err := os.WriteFile(o.Path, []byte(o.Content), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", o.Path)
		}
	}
	return nil
}

type Status string

const (
	StatusMissing Status = "missing"
	StatusStale   Status = "stale"
)

// Difference is a generated file whose content on disk does not match.
type Difference struct {
	Path   string
	Status Status
}

// Check compares outputs with the files on disk without writing anything.
func Check(outputs []*codegen.Output) ([]Difference, error) {
	var diffs []Difference
	for _, o := range outputs {
		current, err := os.ReadFile(o.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			diffs = append(diffs, Difference{Path: o.Path, Status: StatusMissing})
		case err != nil:
			return nil, errors.Wrapf(err, "failed to read %s", o.Path)
		case !bytes.Equal(current, []byte(o.Content)):
			diffs = append(diffs, Difference{Path: o.Path, Status: StatusStale})
		}
	}
	return diffs, nil
}
