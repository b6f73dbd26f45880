// Package console prints generated statements for the operator.
package console

import (
	"fmt"
	"io"
	"strconv"

	"post-data-parser/internal/sqlgen"
)

// PrintStatements writes a numbered listing of stmts. Numbers are right
// aligned to the widest index.
func PrintStatements(w io.Writer, stmts []sqlgen.Statement) {
	if len(stmts) == 0 {
		fmt.Fprintln(w, "No statements generated.")
		return
	}

	fmt.Fprintf(w, "\nAll Generated Queries (%d):\n\n", len(stmts))
	width := len(strconv.Itoa(len(stmts)))
	for i, stmt := range stmts {
		fmt.Fprintf(w, "%*d: %s\n", width, i+1, stmt.SQL())
	}
	fmt.Fprintln(w)
}

// PrintCounts writes a per-table summary in the given table order.
func PrintCounts(w io.Writer, title string, tables []string, counts map[string]int) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, table := range tables {
		fmt.Fprintf(w, "- %-16s %d\n", table, counts[table])
	}
}
