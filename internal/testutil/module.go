// Package testutil writes throwaway Go modules for tests that go through
// go/packages.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// ModulePath is the module path of fixture modules
const ModulePath = "example.com/demo"

// MarkerPath is the import path of the fixture's own marker package
const MarkerPath = ModulePath + "/match"

// MarkerSource declares the fixture marker and the runtime helpers
// generated code calls, so the package also serves as a runtime stand-in.
const MarkerSource = `package match

import "fmt"

type Enum struct{}

func ArgumentIsNull(param string) error {
	return fmt.Errorf("argument %s is nil", param)
}

func UnexpectedDiscriminant(enum string, value any) error {
	return fmt.Errorf("unexpected %s value %v", enum, value)
}
`

// WriteModule writes a module named ModulePath containing files (relative,
// slash-separated paths) into a fresh temporary directory and returns it.
// The marker package is always included.
func WriteModule(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	all := map[string]string{
		"go.mod":         "module " + ModulePath + "\n\ngo 1.22\n",
		"match/match.go": MarkerSource,
	}
	for name, content := range files {
		all[name] = content
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(all[name]), 0644))
	}

	return dir
}

// Env is the environment fixture loads run with
func Env() []string {
	return append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
}
