package sqlgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyRecord is returned for a record with no fields, which would
// otherwise render as an INSERT with an empty column list.
var ErrEmptyRecord = errors.New("record has no fields")

// Dialect selects how a statement is rendered for live execution.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("unsupported dialect %q", name)
}

// Statement is one row insert. Its values are kept apart from its literal
// rendering so the same row can be exported as text or bound as parameters.
type Statement struct {
	Table  string
	Fields []Field
	text   string
}

func NewStatement(rec Record) (Statement, error) {
	if len(rec.Fields) == 0 {
		return Statement{}, fmt.Errorf("%s: %w", rec.Table, ErrEmptyRecord)
	}
	fields := make([]Field, len(rec.Fields))
	copy(fields, rec.Fields)
	return Statement{
		Table:  rec.Table,
		Fields: fields,
		text:   Render(rec.Table, fields),
	}, nil
}

// SQL returns the literal INSERT IGNORE statement.
func (s Statement) SQL() string {
	return s.text
}

func (s Statement) String() string {
	return s.text
}

// Columns returns the column names in order.
func (s Statement) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Args returns the raw values in column order.
func (s Statement) Args() []any {
	args := make([]any, len(s.Fields))
	for i, f := range s.Fields {
		args[i] = f.Value
	}
	return args
}

// Query renders the statement as a parameterized insert that skips rows
// colliding with an existing key.
func (s Statement) Query(d Dialect) (string, []any, error) {
	cols := strings.Join(s.Columns(), ", ")
	placeholders := make([]string, len(s.Fields))

	var query string
	switch d {
	case DialectMySQL:
		for i := range placeholders {
			placeholders[i] = "?"
		}
		query = fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)",
			s.Table, cols, strings.Join(placeholders, ", "))
	case DialectSQLite:
		for i := range placeholders {
			placeholders[i] = "?"
		}
		query = fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
			s.Table, cols, strings.Join(placeholders, ", "))
	case DialectPostgres:
		for i := range placeholders {
			placeholders[i] = "$" + strconv.Itoa(i+1)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
			s.Table, cols, strings.Join(placeholders, ", "))
	default:
		return "", nil, fmt.Errorf("unsupported dialect %q", d)
	}
	return query, s.Args(), nil
}

// Render formats an INSERT IGNORE statement with integers bare and text
// single-quoted. Quotes inside text are escaped here and nowhere else.
func Render(table string, fields []Field) string {
	names := make([]string, len(fields))
	values := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		values[i] = literal(f.Value)
	}
	return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s);",
		table, strings.Join(names, ", "), strings.Join(values, ", "))
}

func literal(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case string:
		return "'" + EscapeQuotes(val) + "'"
	default:
		return "'" + EscapeQuotes(fmt.Sprint(val)) + "'"
	}
}
