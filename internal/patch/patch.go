// Package patch applies computed text replacements to specific lines of a
// file atomically: the full replacement is written to a temporary file and
// swapped in via rename, so a crash mid-write never corrupts the original.
package patch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrLineOutOfRange is returned when an update names a line the file does
// not have.
var ErrLineOutOfRange = errors.New("line index out of range")

// Update replaces one line. Line indices are 0-based and refer to the file
// as read before any update in the same batch is applied.
type Update struct {
	Line int
	Text string
}

// Apply rewrites the named lines of the file and replaces it atomically.
// Each patched line keeps its original leading whitespace; every other
// line is preserved byte for byte. All updates are computed against one
// snapshot of the file, then written together.
func Apply(path string, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	for _, u := range updates {
		if u.Line < 0 || u.Line >= len(lines) {
			return fmt.Errorf("%w: %d in %s", ErrLineOutOfRange, u.Line, path)
		}

		lines[u.Line] = leadingWhitespace(lines[u.Line]) + u.Text
	}

	content := strings.Join(lines, "\n") + "\n"

	err = atomic.WriteFile(path, strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func leadingWhitespace(line string) string {
	trimmed := strings.TrimLeft(line, " \t")

	return line[:len(line)-len(trimmed)]
}
