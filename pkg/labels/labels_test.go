package labels_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/labels"
)

func TestLoad_EmptyPathReturnsNil(t *testing.T) {
	got, err := labels.Load("")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLoad_ParsesYAMLTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.yaml")

	content := "chapter:\n  full: Capitulo\n  abbr: cap.\n  cite_ref: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := labels.Load(path)
	require.NoError(t, err)
	require.Equal(t, "Capitulo", got["chapter"].Full)
	require.Equal(t, "cap.", got["chapter"].Abbr)
	require.True(t, got["chapter"].IsCiteRef)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := labels.Load("/does/not/exist.yaml")
	require.Error(t, err)
}
