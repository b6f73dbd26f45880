// Package export writes generated statements and post data to files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"post-data-parser/internal/sqlgen"
)

// WriteSQLScript writes a USE line for database followed by one statement
// per line.
func WriteSQLScript(w io.Writer, database string, stmts []sqlgen.Statement) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "USE %s;\n", database); err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := fmt.Fprintln(bw, stmt.SQL()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFile creates or truncates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
