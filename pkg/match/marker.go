// Package match is the runtime support package for code generated by matchgen.
//
// An enumeration opts into generation by carrying the Enum marker in its doc
// comment:
//
//	import _ "github.com/toyz/matchgen/pkg/match"
//
//	// Direction is a compass direction.
//	// @match.Enum
//	type Direction int
//
//	const (
//		Up Direction = iota
//		Down
//		Left
//		Right
//	)
//
// Running matchgen then writes match_gen.go next to the declaration with three
// helpers per enumeration: MatchDirection (callbacks, no result),
// MatchDirectionFunc (callbacks returning a value) and MatchDirectionValue
// (plain values).
package match

// ImportPath is the import path generated code uses for this package.
const ImportPath = "github.com/toyz/matchgen/pkg/match"

// MarkerName is the name of the marker type inside this package.
const MarkerName = "Enum"

// Enum marks an enumeration for match helper generation. It is referenced
// from doc comments only and carries no data.
type Enum struct{}

// Marker returns the fully qualified identity of the Enum marker.
func Marker() string {
	return ImportPath + "." + MarkerName
}
