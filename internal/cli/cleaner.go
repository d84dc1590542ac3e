package cli

import (
	"github.com/toyz/matchgen/internal/generator"
	"github.com/toyz/matchgen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
	files   *utils.FileProcessor
}

// NewCleaner creates a cleaner resolving patterns against baseDir
func NewCleaner(baseDir string) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(baseDir),
		files:   utils.NewFileProcessor(),
	}
}

// FindGeneratedFiles lists the generated files the patterns cover. A file
// named fileName that was not written by matchgen is never listed.
func (c *Cleaner) FindGeneratedFiles(patterns []string, fileName string) ([]string, error) {
	roots, err := c.scanner.ScanRoots(patterns)
	if err != nil {
		return nil, err
	}

	var found []string
	seen := make(map[string]bool)
	for _, root := range roots {
		files, err := c.files.FindGeneratedFiles([]string{root.Dir}, root.Recursive, fileName, generator.DefaultToolName)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if !seen[file] {
				seen[file] = true
				found = append(found, file)
			}
		}
	}
	return found, nil
}

// CleanGeneratedFiles removes the generated files the patterns cover and
// returns their paths. With dryRun set nothing is removed.
func (c *Cleaner) CleanGeneratedFiles(patterns []string, fileName string, dryRun bool) ([]string, error) {
	files, err := c.FindGeneratedFiles(patterns, fileName)
	if err != nil || dryRun {
		return files, err
	}
	return c.files.RemoveFiles(files)
}
