package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	home := t.TempDir()
	st, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, State{}, st)
}

func TestLoadEmptyFileReturnsZeroValue(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(Path(home), nil, 0o600))

	st, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, State{}, st)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	home := t.TempDir()
	want := State{
		SearchPattern: "alpha",
		Buffers: []BufferPosition{
			{Name: "main.go", Line: 12},
			{Name: "README.md", Line: 0},
		},
	}

	require.NoError(t, Save(home, want))
	got, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveThenLoadRoundTripsMultilinePattern(t *testing.T) {
	home := t.TempDir()
	want := State{SearchPattern: "foo\nbar"}

	require.NoError(t, Save(home, want))
	got, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Nil(t, got.Buffers)
}

func TestSaveReplacesExistingFileAtomically(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, Save(home, State{SearchPattern: "first"}))
	require.NoError(t, Save(home, State{SearchPattern: "second"}))

	got, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, "second", got.SearchPattern)

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no leftover temp file")
}

func TestLoadSkipsMalformedBufferLines(t *testing.T) {
	home := t.TempDir()
	content := "0\nmain.go notanumber\nmain.go 5\n\n"
	require.NoError(t, os.WriteFile(Path(home), []byte(content), 0o600))

	got, err := Load(home)
	require.NoError(t, err)
	require.Equal(t, []BufferPosition{{Name: "main.go", Line: 5}}, got.Buffers)
}

func TestLoadRejectsMalformedLineCount(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(Path(home), []byte("not-a-number\n"), 0o600))

	_, err := Load(home)
	require.Error(t, err)
}

func TestPathJoinsHomeAndFileName(t *testing.T) {
	require.Equal(t, filepath.Join("/home/u", ".ce"), Path("/home/u"))
}
