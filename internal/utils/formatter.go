package utils

import "go/format"

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}
