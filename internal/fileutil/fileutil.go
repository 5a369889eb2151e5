// Package fileutil validates candidate file paths before anything tries to
// open them. Running the check at configuration-build time means a single
// bad file aborts the harvest before any extraction work is wasted.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrInvalidPath reports a path that failed validation: a disallowed
// character, a missing or irregular file, an empty file, or no read access.
var ErrInvalidPath = errors.New("invalid path")

// disallowedChar matches any character outside the path allow-set.
var disallowedChar = regexp.MustCompile(`[^A-Za-z0-9._/-]`)

// CheckReadableFile ensures that path is well-formed, references an existing
// regular file that contains data, and is readable by the current process.
func CheckReadableFile(path string) error {
	if c := disallowedChar.FindString(path); c != "" {
		return fmt.Errorf("%w: character %q in %q, only a-z A-Z 0-9 . _ / - are allowed",
			ErrInvalidPath, c, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %q does not exist: %v", ErrInvalidPath, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidPath, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: file %q is empty", ErrInvalidPath, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: insufficient permissions on %q: %v", ErrInvalidPath, path, err)
	}
	return f.Close()
}
