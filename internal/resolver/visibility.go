package resolver

import (
	"strings"

	"github.com/toyz/matchgen/internal/models"
)

// VisibilityOf maps a symbol's accessibility to a descriptor visibility.
// Unexported symbols have none.
func VisibilityOf(symbol *Symbol) (models.Visibility, bool) {
	if !symbol.Exported {
		return 0, false
	}
	if IsInternalPath(symbol.PackagePath) {
		return models.VisibilityInternal, true
	}
	return models.VisibilityPublic, true
}

// IsInternalPath reports whether importPath has an "internal" element
func IsInternalPath(importPath string) bool {
	for _, elem := range strings.Split(importPath, "/") {
		if elem == "internal" {
			return true
		}
	}
	return false
}
