package cli

import (
	"github.com/toyz/matchgen/internal/utils"
)

// RuntimeModule is the module generated code imports its runtime package from
const RuntimeModule = "github.com/toyz/matchgen"

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a module resolver sharing the reader's cache
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser(reader)}
}

// ResolveModuleName returns the path of the module enclosing dir
func (r *ModuleResolver) ResolveModuleName(dir string) (string, error) {
	goMod, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return "", err
	}
	return r.gomod.ParseModuleName(goMod)
}

// RequiresRuntime reports whether the module enclosing dir can import the
// runtime package. It also returns the go.mod that was checked.
func (r *ModuleResolver) RequiresRuntime(dir string) (string, bool, error) {
	goMod, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return "", false, err
	}
	ok, err := r.gomod.RequiresModule(goMod, RuntimeModule)
	return goMod, ok, err
}
