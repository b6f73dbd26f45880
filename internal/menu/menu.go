// Package menu implements the interactive single-character command loop.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"post-data-parser/internal/config"
	"post-data-parser/internal/console"
	"post-data-parser/internal/database"
	"post-data-parser/internal/export"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/pkg/types"
)

const helpText = `Commands:
  v  view generated statements
  r  run statements against a database
  s  write statements to a SQL script
  w  write post data as HTML
  p  write post data as PDF
  m  show run metrics
  h  show this help
  q  quit
`

type Session struct {
	cfg     *config.Config
	doc     *types.PostData
	log     *sqlgen.Log
	monitor *monitoring.Monitor
	logger  *logrus.Logger

	in  *bufio.Scanner
	out io.Writer

	// replaced in tests
	connect  func(ctx context.Context, cfg *config.DatabaseConfig, logger *logrus.Logger) (*database.DB, error)
	printPDF func(ctx context.Context, htmlPath, pdfPath string, logger *logrus.Logger) error
}

func NewSession(cfg *config.Config, doc *types.PostData, log *sqlgen.Log, monitor *monitoring.Monitor,
	logger *logrus.Logger, in io.Reader, out io.Writer) *Session {
	return &Session{
		cfg:      cfg,
		doc:      doc,
		log:      log,
		monitor:  monitor,
		logger:   logger,
		in:       bufio.NewScanner(in),
		out:      out,
		connect:  database.NewConnection,
		printPDF: export.PrintPDF,
	}
}

// Run reads commands until q or end of input.
func (s *Session) Run(ctx context.Context) {
	fmt.Fprint(s.out, helpText)
	for {
		line, ok := s.prompt("\n> ")
		if !ok {
			return
		}
		if quit := s.Dispatch(ctx, line); quit {
			return
		}
	}
}

// Dispatch runs one command and reports whether the session should end.
func (s *Session) Dispatch(ctx context.Context, command string) bool {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "":
	case "v":
		console.PrintStatements(s.out, s.log.Statements())
	case "r":
		s.runStatements(ctx)
	case "s":
		s.writeSQL()
	case "w":
		s.writeHTML()
	case "p":
		s.writePDF(ctx)
	case "m":
		if s.monitor != nil {
			fmt.Fprintln(s.out, s.monitor.GenerateReport())
		}
	case "h", "?":
		fmt.Fprint(s.out, helpText)
	case "q":
		fmt.Fprintln(s.out, "Goodbye.")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q, press h for help.\n", command)
	}
	return false
}

func (s *Session) success(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "✓ - "+format+"\n", args...)
}

func (s *Session) failure(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "X - "+format+"\n", args...)
}

// prompt prints label and returns the next input line, or false at end of
// input.
func (s *Session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) promptDefault(label, def string) (string, bool) {
	text, ok := s.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if !ok {
		return "", false
	}
	if text == "" {
		return def, true
	}
	return text, true
}

// promptPath asks for an output filename and confirms before overwriting an
// existing file. It returns false when the operator declines.
func (s *Session) promptPath(what, def string) (string, bool) {
	path, ok := s.promptDefault(what+" filename", def)
	if !ok {
		return "", false
	}
	if !export.Exists(path) {
		return path, true
	}

	answer, ok := s.prompt(fmt.Sprintf("'%s' already exists. Overwrite? [y/N]: ", path))
	if !ok || !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(s.out, "Cancelled.")
		return "", false
	}
	return path, true
}

func (s *Session) writeSQL() {
	path, ok := s.promptPath("SQL script", s.cfg.Output.SQLFile)
	if !ok {
		return
	}

	stmts := s.log.Statements()
	err := export.WriteFile(path, func(w io.Writer) error {
		return export.WriteSQLScript(w, s.cfg.Database.Name, stmts)
	})
	if err != nil {
		s.failure("%v", err)
		return
	}
	s.success("Wrote %d statements to '%s'.", len(stmts), path)
}

func (s *Session) renderHTML() (string, error) {
	tmpl, err := export.LoadTemplate(s.cfg.Output.HTMLTemplate)
	if err != nil {
		return "", err
	}
	var posts []types.Post
	if s.doc != nil {
		posts = s.doc.Posts
	}
	return export.RenderHTML(tmpl, posts)
}

func (s *Session) writeHTML() {
	path, ok := s.promptPath("HTML", s.cfg.Output.HTMLFile)
	if !ok {
		return
	}

	html, err := s.renderHTML()
	if err != nil {
		s.failure("Failed to render HTML: %v", err)
		return
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		s.failure("Failed to write '%s': %v", path, err)
		return
	}
	s.success("Wrote HTML to '%s'.", path)
}

func (s *Session) writePDF(ctx context.Context) {
	path, ok := s.promptPath("PDF", s.cfg.Output.PDFFile)
	if !ok {
		return
	}

	html, err := s.renderHTML()
	if err != nil {
		s.failure("Failed to render HTML: %v", err)
		return
	}

	tmp, err := os.CreateTemp("", "tmdp-*.html")
	if err != nil {
		s.failure("Failed to create temporary file: %v", err)
		return
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.WriteString(html)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.failure("Failed to write temporary file: %v", err)
		return
	}

	if err := s.printPDF(ctx, tmp.Name(), path, s.logger); err != nil {
		s.failure("%v", err)
		return
	}
	s.success("Wrote PDF to '%s'.", path)
}

// promptDatabase confirms the connection parameters, starting from the
// configured values.
func (s *Session) promptDatabase() (config.DatabaseConfig, bool) {
	db := s.cfg.Database
	var ok bool

	if db.Driver == string(sqlgen.DialectSQLite) {
		if db.Path, ok = s.promptDefault("Database file", db.Path); !ok {
			return db, false
		}
		return db, true
	}

	if db.Host, ok = s.promptDefault("Host", db.Host); !ok {
		return db, false
	}
	port, ok := s.promptDefault("Port", strconv.Itoa(db.Port))
	if !ok {
		return db, false
	}
	if n, err := strconv.Atoi(port); err == nil {
		db.Port = n
	} else {
		fmt.Fprintf(s.out, "Invalid port %q, using %d.\n", port, db.Port)
	}
	if db.User, ok = s.promptDefault("User", db.User); !ok {
		return db, false
	}
	password, ok := s.prompt("Password (blank keeps configured): ")
	if !ok {
		return db, false
	}
	if password != "" {
		db.Password = password
	}
	if db.Name, ok = s.promptDefault("Database", db.Name); !ok {
		return db, false
	}
	return db, true
}

func (s *Session) runStatements(ctx context.Context) {
	stmts := s.log.Statements()
	if len(stmts) == 0 {
		fmt.Fprintln(s.out, "No statements to run.")
		return
	}

	dbCfg, ok := s.promptDatabase()
	if !ok {
		fmt.Fprintln(s.out, "Cancelled.")
		return
	}

	db, err := s.connect(ctx, &dbCfg, s.logger)
	if err != nil {
		s.failure("%v", err)
		return
	}
	defer db.Close()

	if dbCfg.CreateSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			s.failure("%v", err)
			return
		}
	}

	start := time.Now()
	res, err := db.ExecuteAll(ctx, stmts)
	if s.monitor != nil {
		s.monitor.RecordExecution(res.Executed, err != nil, time.Since(start))
	}
	if err != nil {
		s.failure("Executed %d of %d statements before failing: %v", res.Executed, len(stmts), err)
		return
	}
	s.success("Executed %d statements (%d rows inserted, %d already present).", res.Executed, res.Inserted, res.Skipped)

	counts, err := db.GetTableCounts(ctx)
	if err != nil {
		s.logger.Warnf("Failed to read table counts: %v", err)
		return
	}
	byTable := make(map[string]int, len(counts))
	for _, c := range counts {
		byTable[c.Table] = c.Rows
	}
	console.PrintCounts(s.out, "Rows in database", sqlgen.Tables, byTable)
}
