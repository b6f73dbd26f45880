package database

import (
	"context"
	"fmt"
	"strings"

	"post-data-parser/internal/sqlgen"
)

type column struct {
	name string
	kind string
}

// tableColumns mirrors the column order emitted by the record builders.
// Every table is keyed on its first column so INSERT IGNORE collapses
// repeated rows.
var tableColumns = map[string][]column{
	sqlgen.TablePost:            {{"id", "int"}, {"social_id", "int"}, {"content", "text"}, {"date", "date"}},
	sqlgen.TablePostCategory:    {{"category_name", "name"}},
	sqlgen.TableCategoryDetail:  {{"id", "int"}, {"post_category_name", "name"}, {"detail_description", "text"}},
	sqlgen.TablePostComment:     {{"id", "int"}, {"content", "text"}, {"date", "date"}, {"post_id", "int"}, {"social_id", "int"}},
	sqlgen.TablePostLike:        {{"id", "int"}, {"date", "date"}, {"post_id", "int"}, {"social_id", "int"}},
	sqlgen.TablePostTag:         {{"id", "int"}, {"post_id", "int"}, {"tagger_social_id", "int"}, {"tagged_social_id", "int"}},
	sqlgen.TablePostCommentLike: {{"id", "int"}, {"comment_id", "int"}, {"social_id", "int"}, {"date", "date"}},
	sqlgen.TablePostCommentTag:  {{"id", "int"}, {"comment_id", "int"}, {"tagger_social_id", "int"}, {"tagged_social_id", "int"}},
}

// MapType maps a logical column kind to a column type for the dialect.
func MapType(d sqlgen.Dialect, kind string) string {
	if d == sqlgen.DialectSQLite {
		if kind == "int" {
			return "INTEGER"
		}
		return "TEXT"
	}
	switch kind {
	case "int":
		return "BIGINT"
	case "name":
		return "VARCHAR(255)"
	case "date":
		return "DATE"
	default:
		return "TEXT"
	}
}

// CreateTableSQL returns the CREATE TABLE statement for one target table.
func CreateTableSQL(d sqlgen.Dialect, table string) (string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}

	defs := make([]string, 0, len(cols))
	for i, c := range cols {
		def := c.name + " " + MapType(d, c.kind)
		if i == 0 {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", table, strings.Join(defs, ",\n    ")), nil
}

// EnsureSchema creates any missing target tables.
func (db *DB) EnsureSchema(ctx context.Context) error {
	db.logger.Info("Creating target tables...")

	for _, table := range sqlgen.Tables {
		ddl, err := CreateTableSQL(db.dialect, table)
		if err != nil {
			return err
		}
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	db.logger.Info("Target tables ready")
	return nil
}
