package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedHeader = "// Code generated by matchgen. DO NOT EDIT.\n\npackage demo\n"

func TestFileProcessor_WalkFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "match_gen.go", generatedHeader)
	writeFile(t, dir, "a/match_gen.go", generatedHeader)
	writeFile(t, dir, "a/b/match_gen.go", generatedHeader)
	writeFile(t, dir, "vendor/x/match_gen.go", generatedHeader)
	writeFile(t, dir, ".hidden/match_gen.go", generatedHeader)
	writeFile(t, dir, "_skip/match_gen.go", generatedHeader)
	writeFile(t, dir, "a/other.go", "package demo\n")

	fp := NewFileProcessor()

	files, err := fp.WalkFiles(dir, FileWalkOptions{
		FileFilter:      NamedFileFilter("match_gen.go"),
		DirectoryFilter: DefaultDirectoryFilter(),
		Recursive:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "match_gen.go"),
		filepath.Join(dir, "a", "match_gen.go"),
		filepath.Join(dir, "match_gen.go"),
	}, files)

	files, err = fp.WalkFiles(dir, FileWalkOptions{FileFilter: NamedFileFilter("match_gen.go")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "match_gen.go")}, files)
}

func TestFileProcessor_WalkFilesMissingRoot(t *testing.T) {
	fp := NewFileProcessor()
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := fp.WalkFiles(missing, FileWalkOptions{})
	assert.Error(t, err)

	files, err := fp.WalkFiles(missing, FileWalkOptions{SkipErrors: true})
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileProcessor_FindAndRemoveGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	generated := writeFile(t, dir, "colors/match_gen.go", generatedHeader)
	writeFile(t, dir, "manual/match_gen.go", "package manual\n")
	writeFile(t, dir, "other/match_gen.go", "// Code generated by stringer. DO NOT EDIT.\n\npackage other\n")

	fp := NewFileProcessor()
	files, err := fp.FindGeneratedFiles([]string{dir, dir}, true, "match_gen.go", "matchgen")
	require.NoError(t, err)
	assert.Equal(t, []string{generated}, files)

	removed, err := fp.RemoveFiles(append(files, filepath.Join(dir, "gone.go")))
	require.NoError(t, err)
	assert.Equal(t, []string{generated}, removed)

	_, err = os.Stat(generated)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(dir, "manual", "match_gen.go"))
}
