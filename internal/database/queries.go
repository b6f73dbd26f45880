package database

import (
	"context"
	"fmt"

	"post-data-parser/internal/sqlgen"
)

// TableCount is the number of rows currently stored in a target table.
type TableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// GetTableCounts returns row counts for every target table in load order.
func (db *DB) GetTableCounts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(sqlgen.Tables))
	for _, table := range sqlgen.Tables {
		var n int
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// GetCategoryNames returns the stored category names in name order.
func (db *DB) GetCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT category_name FROM "+sqlgen.TablePostCategory+" ORDER BY category_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
