// internal/utils/date.go
package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrFormat is returned when a source date is not slash separated MM/DD/YYYY.
var ErrFormat = errors.New("malformed date")

// ReformatDate rewrites MM/DD/YYYY as YYYY-MM-DD. Only the separators are
// checked; the parts are carried over as-is.
func ReformatDate(text string) (string, error) {
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrFormat, text)
	}
	return parts[2] + "-" + parts[0] + "-" + parts[1], nil
}

func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
