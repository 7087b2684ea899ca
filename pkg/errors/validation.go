package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateSymbolName validates a symbol name taken from a manifest.
// Symbol names double as image file stems, so anything that could escape the
// asset directory is rejected:
//   - No empty or whitespace-only names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSymbolName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidManifest, "symbol name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidManifest, "symbol name too long (max 128 characters): %q", name[:32]+"...")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "symbol name contains invalid control characters: %q", name)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidManifest, "symbol name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateManifestFilename validates a manifest path.
// Only TOML manifests are supported.
func ValidateManifestFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest path cannot be empty")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return New(ErrCodeInvalidManifest, "manifest must be a .toml file, got %q", ext)
	}
	return nil
}

// ValidateOutputDir validates an output directory path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Maximum length of 500 characters
func ValidateOutputDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
