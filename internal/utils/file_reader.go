package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// FileReader provides common file reading functionality with caching
type FileReader struct {
	fileSet      *token.FileSet
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching.
// Cached content is dropped when the file's modification time changes.
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)

	return contentStr, nil
}

// IsGeneratedBy reports whether the Go file carries the generated-code
// header written by tool. Only the header and package clause are parsed.
func (fr *FileReader) IsGeneratedBy(filePath, tool string) (bool, error) {
	content, err := fr.ReadFile(filePath)
	if err != nil {
		return false, err
	}

	file, err := parser.ParseFile(fr.fileSet, filePath, content, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(filePath), err)
	}
	if !ast.IsGenerated(file) {
		return false, nil
	}

	header := fmt.Sprintf("Code generated by %s.", tool)
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if strings.Contains(comment.Text, header) {
				return true, nil
			}
		}
	}
	return false, nil
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contentCache.Clear()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// GetCacheStats returns statistics about the content cache
func (fr *FileReader) GetCacheStats() CacheStats {
	return fr.contentCache.GetStats()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	// Allow .. only at the start of a relative path
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
	}

	if _, err := os.Stat(cleanPath); err != nil {
		return "", fmt.Errorf("file does not exist: %s: %w", cleanPath, err)
	}

	return cleanPath, nil
}
