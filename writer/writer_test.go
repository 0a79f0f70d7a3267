package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemats/schemats/codegen"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outputs := []*codegen.Output{
		{Path: filepath.Join(dir, "gen", "user.ts"), Content: "export type User = string;\n"},
		{Path: filepath.Join(dir, "gen", "admin", "admin.ts"), Content: "export type Admin = string;\n"},
	}

	require.NoError(t, Write(outputs))

	for _, o := range outputs {
		got, err := os.ReadFile(o.Path)
		require.NoError(t, err)
		assert.Equal(t, o.Content, string(got))
	}

	// 既存のファイルは上書きする
	outputs[0].Content = "export type User = number;\n"
	require.NoError(t, Write(outputs[:1]))
	got, err := os.ReadFile(outputs[0].Path)
	require.NoError(t, err)
	assert.Equal(t, outputs[0].Content, string(got))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	upToDate := filepath.Join(dir, "up_to_date.ts")
	stale := filepath.Join(dir, "stale.ts")
	missing := filepath.Join(dir, "missing", "missing.ts")

	require.NoError(t, os.WriteFile(upToDate, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(stale, []byte("old\n"), 0o644))

	diffs, err := Check([]*codegen.Output{
		{Path: upToDate, Content: "a\n"},
		{Path: stale, Content: "new\n"},
		{Path: missing, Content: "b\n"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Difference{
		{Path: stale, Status: StatusStale},
		{Path: missing, Status: StatusMissing},
	}, diffs)

	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "Check must not write files")
}
