package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"post-data-parser/internal/config"
	"post-data-parser/internal/sqlgen"
)

type DB struct {
	conn    *sql.DB
	dialect sqlgen.Dialect
	logger  *logrus.Logger
}

// ExecError identifies the statement that stopped a run.
type ExecError struct {
	Index     int
	Statement string
	Err       error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("statement %d failed: %v\n    %s", e.Index, e.Err, e.Statement)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecResult summarizes a completed run. Skipped rows collided with an
// existing key and were ignored by the database.
type ExecResult struct {
	Executed int
	Inserted int64
	Skipped  int
}

// DataSource returns the database/sql driver name and DSN for cfg.
func DataSource(cfg *config.DatabaseConfig) (string, string, error) {
	dialect, err := sqlgen.ParseDialect(cfg.Driver)
	if err != nil {
		return "", "", err
	}

	switch dialect {
	case sqlgen.DialectMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		return "mysql", mc.FormatDSN(), nil
	case sqlgen.DialectPostgres:
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
		return "postgres", connStr, nil
	default:
		if cfg.Path == "" {
			return "", "", errors.New("sqlite: database.path must not be empty")
		}
		return "sqlite", cfg.Path, nil
	}
}

func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	driver, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		logger.Infof("Connecting to database: driver=sqlite path=%s", cfg.Path)
	} else {
		logger.Infof("Connecting to database: driver=%s host=%s port=%d dbname=%s user=%s",
			driver, cfg.Host, cfg.Port, cfg.Name, cfg.User)
	}
	return Open(ctx, driver, dsn, logger)
}

// Open connects with an explicit driver name and DSN and pings the server.
func Open(ctx context.Context, driver, dsn string, logger *logrus.Logger) (*DB, error) {
	dialect, err := sqlgen.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if dialect == sqlgen.DialectSQLite {
		// every pooled connection to :memory: would be a separate database
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return &DB{conn: conn, dialect: dialect, logger: logger}, nil
}

func (db *DB) Dialect() sqlgen.Dialect {
	return db.dialect
}

// ExecuteAll runs the statements one at a time in order, waiting for each
// before sending the next. The first failure stops the run.
func (db *DB) ExecuteAll(ctx context.Context, stmts []sqlgen.Statement) (ExecResult, error) {
	var res ExecResult
	db.logger.Infof("Executing %d statements", len(stmts))

	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		query, args, err := stmt.Query(db.dialect)
		if err != nil {
			return res, &ExecError{Index: i + 1, Statement: stmt.SQL(), Err: err}
		}

		result, err := db.conn.ExecContext(ctx, query, args...)
		if err != nil {
			db.logger.Errorf("Statement %d failed: %v", i+1, err)
			return res, &ExecError{Index: i + 1, Statement: stmt.SQL(), Err: err}
		}
		res.Executed++

		if n, err := result.RowsAffected(); err == nil {
			if n == 0 {
				res.Skipped++
			}
			res.Inserted += n
		}
		db.logger.Debugf("Executed statement %d: %s", i+1, stmt.SQL())
	}

	db.logger.Infof("Executed %d statements (%d rows inserted, %d skipped)", res.Executed, res.Inserted, res.Skipped)
	return res, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}
