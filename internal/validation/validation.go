// Package validation checks user supplied paths, delimiters and file modes before they are used.
package validation

import (
	"fmt"
	"os"
	"unicode/utf8"

	"fjacquet/pocket-budget/internal/budgeterror"
)

// InputPath checks that path exists and is a regular file or a directory.
func InputPath(path string) error {
	if path == "" {
		return budgeterror.NewValidation("input", "", "must not be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return budgeterror.NewValidation("input", path, "does not exist")
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return budgeterror.NewValidation("input", path, "is neither a file nor a directory")
	}
	return nil
}

// Delimiter parses a CSV field delimiter. It must be exactly one character and cannot be a
// quote or a line break.
func Delimiter(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, budgeterror.NewValidation("delimiter", s, "must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, budgeterror.NewValidation("delimiter", s, "not usable as a CSV delimiter")
	}
	return r, nil
}

// FilePermissions rejects modes that give other users any access. Preference files hold the
// whole budget history and should be 0600.
func FilePermissions(mode os.FileMode) error {
	if mode.Perm()&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s, recommended 0600", mode.Perm().String())
	}
	return nil
}
