package errors

import "fmt"

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapLoadError wraps package loading errors
func WrapLoadError(patterns []string, cause error) *BaseError {
	return Wrap(LoadErrorCode, fmt.Sprintf("failed to load packages %v", patterns), cause).
		WithContext("patterns", patterns).
		WithSuggestions(
			"Check for syntax or type errors in the listed packages",
			"Run the generator from inside the module that owns the packages",
		)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapFormatError wraps a gofmt failure on generated source
func WrapFormatError(packagePath string, cause error) *BaseError {
	return Wrap(FormatErrorCode, fmt.Sprintf("generated source for %s is not valid Go", packagePath), cause).
		WithContext("package", packagePath)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}
