package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "FiraMono/FiraMono-Bold.ttf", "FiraMono/OFL.txt", "Inter.OTF")

	list, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"FiraMono/FiraMono-Bold.ttf", "Inter.OTF"}, list)

	list, err = Scan(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "FiraMono/FiraMono-Bold.ttf", "FiraMono/FiraMono-Regular.ttf", "Inter/Inter-Medium.ttf")

	got, err := Find(dir, "Fira Mono")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "FiraMono", "FiraMono-Regular.ttf"), got)

	got, err = Find(dir, "inter")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Inter", "Inter-Medium.ttf"), got)

	got, err = Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "FiraMono", "FiraMono-Regular.ttf"), got)

	_, err = Find(dir, "Roboto")
	assert.ErrorIs(t, err, ErrNoFont)
}

func TestDir(t *testing.T) {
	assert.Equal(t, filepath.Join("assets", "fonts"), Dir("assets"))
}
