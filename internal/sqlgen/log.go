package sqlgen

// Log is the ordered, append-only list of generated statements.
type Log struct {
	statements []Statement
	seen       map[string]struct{}
}

func NewLog() *Log {
	return &Log{seen: make(map[string]struct{})}
}

func (l *Log) Append(s Statement) {
	l.statements = append(l.statements, s)
	l.seen[s.SQL()] = struct{}{}
}

// AppendUnique appends s unless an identical statement is already logged.
// It reports whether s was appended.
func (l *Log) AppendUnique(s Statement) bool {
	if _, ok := l.seen[s.SQL()]; ok {
		return false
	}
	l.Append(s)
	return true
}

func (l *Log) Len() int {
	return len(l.statements)
}

// Statements returns a copy of the logged statements in emission order.
func (l *Log) Statements() []Statement {
	out := make([]Statement, len(l.statements))
	copy(out, l.statements)
	return out
}

// CountByTable returns the number of statements per target table.
func (l *Log) CountByTable() map[string]int {
	counts := make(map[string]int)
	for _, s := range l.statements {
		counts[s.Table]++
	}
	return counts
}
