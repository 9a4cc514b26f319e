package compiler

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.tdl.dev/tdlc/internal/exc"
)

// FormatError renders compile errors for terminal output, one line per
// underlying exception.
func FormatError(err error) string {
	var multi MultiException
	if errors.As(err, &multi) {
		lines := make([]string, 0, len(multi))
		for _, e := range multi {
			lines = append(lines, formatException(e))
		}
		return strings.Join(lines, "\n")
	}
	var e exc.Exception
	if errors.As(err, &e) {
		return formatException(e)
	}
	return err.Error()
}

func formatException(e exc.Exception) string {
	loc := e.Location()
	if loc.Line == 0 {
		return fmt.Sprintf("Could not parse %s: %s", loc.URI, e.Message())
	}
	return fmt.Sprintf("Could not parse %s: line %d, column %d: %s", loc.URI, loc.Line, loc.Column, e.Message())
}
