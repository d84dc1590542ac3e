package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/matchgen/internal/errors"
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader())
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, entry fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool // descend below the root directory
	SkipErrors      bool
}

// NamedFileFilter matches regular files with the given base name
func NamedFileFilter(name string) FileFilter {
	return func(path string, entry fs.DirEntry) bool {
		return !entry.IsDir() && entry.Name() == name
	}
}

// DefaultDirectoryFilter skips directories the go tool ignores, along with
// common vendor and build output directories.
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, entry fs.DirEntry) bool {
		if !entry.IsDir() {
			return true
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks rootDir and returns matching files in lexical order.
// The root itself is never rejected by the directory filter.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string
	root := filepath.Clean(rootDir)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})
	if err != nil {
		return matchedFiles, errors.WrapFileSystemError("walk", root, err)
	}

	sort.Strings(matchedFiles)
	return matchedFiles, nil
}

// FindGeneratedFiles returns the files named fileName below the roots whose
// header says they were generated by tool. Hand-written files that happen
// to share the name are left out.
func (fp *FileProcessor) FindGeneratedFiles(roots []string, recursive bool, fileName, tool string) ([]string, error) {
	seen := make(map[string]bool)
	var generated []string

	for _, root := range roots {
		files, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      NamedFileFilter(fileName),
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			if seen[file] {
				continue
			}
			seen[file] = true

			ok, err := fp.fileReader.IsGeneratedBy(file, tool)
			if err != nil || !ok {
				continue
			}
			generated = append(generated, file)
		}
	}

	return generated, nil
}

// RemoveFiles deletes the given files, returning those actually removed
func (fp *FileProcessor) RemoveFiles(files []string) ([]string, error) {
	removed := make([]string, 0, len(files))
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", file, err)
		}
		fp.fileReader.InvalidateFile(file)
		removed = append(removed, file)
	}
	return removed, nil
}

