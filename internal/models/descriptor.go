package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"slices"
	"strings"
)

// Visibility is the access level a descriptor's helpers are generated with
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityInternal
	VisibilityProtected
	VisibilityPrivate
	VisibilityProtectedInternal
	VisibilityPrivateProtected
)

// String returns the visibility keyword
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityInternal:
		return "internal"
	case VisibilityProtected:
		return "protected"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtectedInternal:
		return "protected internal"
	case VisibilityPrivateProtected:
		return "private protected"
	default:
		return "unknown"
	}
}

// Exported reports whether helpers with this visibility get exported names
func (v Visibility) Exported() bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityProtectedInternal:
		return true
	default:
		return false
	}
}

// Descriptor holds the extracted metadata of one qualifying enumeration.
// It is immutable once built; use NewDescriptor rather than a literal so the
// discriminant slice is not shared with the caller.
type Descriptor struct {
	Visibility    Visibility
	QualifiedName string   // import path and type name, e.g. "example.com/demo.Direction"
	Discriminants []string // constant names in declaration order
}

// NewDescriptor creates a descriptor owning a copy of discriminants
func NewDescriptor(visibility Visibility, qualifiedName string, discriminants []string) Descriptor {
	return Descriptor{
		Visibility:    visibility,
		QualifiedName: qualifiedName,
		Discriminants: slices.Clone(discriminants),
	}
}

// ShortName returns the last dot-separated component of the qualified name
func (d Descriptor) ShortName() string {
	if i := strings.LastIndex(d.QualifiedName, "."); i >= 0 {
		return d.QualifiedName[i+1:]
	}
	return d.QualifiedName
}

// PackagePath returns the qualified name without its last component
func (d Descriptor) PackagePath() string {
	if i := strings.LastIndex(d.QualifiedName, "."); i >= 0 {
		return d.QualifiedName[:i]
	}
	return ""
}

// Equal reports structural equality over all three fields
func (d Descriptor) Equal(other Descriptor) bool {
	return d.Visibility == other.Visibility &&
		d.QualifiedName == other.QualifiedName &&
		slices.Equal(d.Discriminants, other.Discriminants)
}

// Hash returns a content hash over all three fields. Equal descriptors hash equal.
func (d Descriptor) Hash() string {
	h := sha256.New()
	var visibility [8]byte
	binary.BigEndian.PutUint64(visibility[:], uint64(d.Visibility))
	h.Write(visibility[:])

	writeField := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	writeField(d.QualifiedName)
	for _, name := range d.Discriminants {
		writeField(name)
	}
	return hex.EncodeToString(h.Sum(nil))
}
