package generator

import (
	"context"

	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
)

// CodeEmitter renders descriptors into the source of one generated unit
type CodeEmitter interface {
	Emit(unit UnitSpec, descriptors []models.Descriptor) string
}

// UnitGenerator runs a generation pass over one compilation
type UnitGenerator interface {
	Generate(ctx context.Context, compilation *parser.Compilation) (*models.GeneratedUnit, []error, error)
}
