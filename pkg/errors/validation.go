package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// extensionRegex matches bare image extensions such as "jpg" or "webp".
var extensionRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ValidateExtension validates an image file extension given with or without
// its leading dot. The extension ends up in a filename passed to another
// program, so only alphanumerics are accepted.
func ValidateExtension(ext string) error {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return New(ErrCodeInvalidExtension, "extension cannot be empty")
	}
	if len(ext) > 16 {
		return New(ErrCodeInvalidExtension, "extension too long (max 16 characters)")
	}
	if !extensionRegex.MatchString(ext) {
		return New(ErrCodeInvalidExtension, "invalid extension: %q", ext)
	}
	return nil
}

// ValidateCommandName validates the executable name used for the external
// compositor. It must be a bare name resolved through PATH or a path to a
// binary; shell syntax is rejected since the name is never run via a shell.
func ValidateCommandName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "compositor command cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "compositor command contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, " \t;|&$`<>") {
		return New(ErrCodeInvalidConfig, "compositor command must be a single executable, got %q", name)
	}

	return nil
}

// ValidateDirPath validates a tile directory path before it is listed.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidateDirPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "directory path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "directory path contains invalid characters")
		}
	}

	return nil
}
