package errors

import "fmt"

// ResolutionError describes a declaration that carried the marker annotation
// but could not be turned into a descriptor.
type ResolutionError struct {
	*BaseError
	TypeName string // name of the skipped declaration
	Marker   string // qualified marker identity
}

// NewNoVisibilityError reports an annotated enumeration without an exported name
func NewNoVisibilityError(typeName string, loc SourceLocation) *ResolutionError {
	message := fmt.Sprintf("enumeration '%s' has no exported visibility and was skipped", typeName)
	return &ResolutionError{
		BaseError: New(NoVisibilityErrorCode, message).
			WithLocation(loc).
			WithSuggestions(
				fmt.Sprintf("Export the type by renaming it to '%s'", exportedName(typeName)),
				"Remove the annotation if the enumeration should stay package-private",
			),
		TypeName: typeName,
	}
}

// NewMarkerUnresolvedError reports an annotation that names the marker while
// the marker type is not reachable from the declaring package.
func NewMarkerUnresolvedError(typeName, marker, importPath string, loc SourceLocation) *ResolutionError {
	message := fmt.Sprintf("marker type %s is not reachable from the package declaring '%s'", marker, typeName)
	return &ResolutionError{
		BaseError: New(MarkerUnresolvedErrorCode, message).
			WithLocation(loc).
			WithContext("import_path", importPath).
			WithSuggestions(
				fmt.Sprintf("Add `import _ %q` to the file declaring '%s'", importPath, typeName),
				fmt.Sprintf("Run `go get %s` if the module is not required yet", importPath),
			),
		TypeName: typeName,
		Marker:   marker,
	}
}

// NewDiscriminantCollisionError reports discriminant names that cannot be
// used as generated parameter names.
func NewDiscriminantCollisionError(typeName, name, reason string, loc SourceLocation) *ResolutionError {
	message := fmt.Sprintf("enumeration '%s' was skipped: discriminant '%s' %s", typeName, name, reason)
	return &ResolutionError{
		BaseError: New(DiscriminantCollisionErrorCode, message).
			WithLocation(loc).
			WithContext("discriminant", name).
			WithSuggestions(fmt.Sprintf("Rename the constant '%s'", name)),
		TypeName: typeName,
	}
}

// NewHelperCollisionError reports an enumeration whose generated helper
// identifier is already taken in its package.
func NewHelperCollisionError(typeName, identifier, owner string, loc SourceLocation) *ResolutionError {
	message := fmt.Sprintf("enumeration '%s' was skipped: generated identifier '%s' collides with %s", typeName, identifier, owner)
	return &ResolutionError{
		BaseError: New(DiscriminantCollisionErrorCode, message).
			WithLocation(loc).
			WithContext("identifier", identifier).
			WithSuggestions(fmt.Sprintf("Rename '%s' or the declaration of '%s'", typeName, identifier)),
		TypeName: typeName,
	}
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	first := name[0]
	if first >= 'a' && first <= 'z' {
		first -= 'a' - 'A'
	}
	return string(first) + name[1:]
}
