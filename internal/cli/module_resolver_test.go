package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/matchgen/internal/utils"
)

func TestModuleResolver(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"consumer/go.mod":     "module example.com/consumer\n\ngo 1.22\n\nrequire github.com/toyz/matchgen v0.1.0\n",
		"consumer/pkg/x.go":   "package pkg\n",
		"standalone/go.mod":   "module example.com/standalone\n\ngo 1.22\n",
		"standalone/pkg/x.go": "package pkg\n",
	})
	resolver := NewModuleResolver(utils.NewFileReader())

	name, err := resolver.ResolveModuleName(filepath.Join(dir, "consumer", "pkg"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/consumer", name)

	goMod, ok, err := resolver.RequiresRuntime(filepath.Join(dir, "consumer", "pkg"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "consumer", "go.mod"), goMod)

	_, ok, err = resolver.RequiresRuntime(filepath.Join(dir, "standalone"))
	require.NoError(t, err)
	assert.False(t, ok)
}
