package sqlgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is returned when a value has no leading base-10 integer.
var ErrParse = errors.New("not an integer")

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// ToSQLInteger coerces raw to an integer using its leading numeric prefix,
// so "12abc" and "12.9" both yield 12.
func ToSQLInteger(raw string) (int64, error) {
	m := leadingInt.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, raw)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", ErrParse, raw)
	}
	return n, nil
}

// EscapeQuotes doubles single quotes for embedding in a SQL string literal.
// It is not idempotent; apply it once per value.
func EscapeQuotes(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}
