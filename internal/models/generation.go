package models

import "path/filepath"

// GeneratedUnit is the single source file emitted for one package
type GeneratedUnit struct {
	PackagePath string       // import path of the package
	PackageName string       // package clause name
	Dir         string       // directory the file is written to
	FileName    string       // base name of the generated file
	Content     string       // generated Go source
	Key         string       // content-addressed cache key of the inputs
	Cached      bool         // true when Content came from the emission cache
	Descriptors []Descriptor // enumerations rendered into Content
}

// Path returns the destination file path
func (u *GeneratedUnit) Path() string {
	return filepath.Join(u.Dir, u.FileName)
}
