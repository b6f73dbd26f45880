package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-data-parser/internal/config"
	"post-data-parser/internal/database"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/pkg/types"
)

const postData = `{"posts":[{"id":1,"social_id":100,"content":"hi","date":"01/02/2020",
  "categories":[{"id":1,"name":"news"}],"comments":[],"likes":[{"id":3,"date":"01/03/2020","social_id":7}],"tags":[]}]}`

type fixture struct {
	dir     string
	cfg     *config.Config
	out     *bytes.Buffer
	monitor *monitoring.Monitor
	logger  *logrus.Logger
	doc     *types.PostData
	log     *sqlgen.Log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger, _ := test.NewNullLogger()

	var doc types.PostData
	require.NoError(t, json.Unmarshal([]byte(postData), &doc))
	log, err := sqlgen.NewWalker(logger).Walk(&doc)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Output.SQLFile = filepath.Join(dir, "post_data.sql")
	cfg.Output.HTMLFile = filepath.Join(dir, "post_data.html")
	cfg.Output.PDFFile = filepath.Join(dir, "post_data.pdf")
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Database.CreateSchema = true

	return &fixture{
		dir:     dir,
		cfg:     cfg,
		out:     &bytes.Buffer{},
		monitor: monitoring.NewMonitor(logger, ""),
		logger:  logger,
		doc:     &doc,
		log:     log,
	}
}

func (f *fixture) session(input string) *Session {
	return NewSession(f.cfg, f.doc, f.log, f.monitor, f.logger, strings.NewReader(input), f.out)
}

func TestViewStatements(t *testing.T) {
	f := newFixture(t)
	f.session("v\nq\n").Run(context.Background())

	out := f.out.String()
	assert.Contains(t, out, "1: INSERT IGNORE INTO Post (id, social_id, content, date) VALUES (1, 100, 'hi', '2020-01-02');")
	assert.Contains(t, out, "2: INSERT IGNORE INTO PostCategory (category_name) VALUES ('news');")
	assert.Contains(t, out, "Goodbye.")
}

func TestWriteSQLScriptDefaultName(t *testing.T) {
	f := newFixture(t)
	f.session("s\n\nq\n").Run(context.Background())

	data, err := os.ReadFile(f.cfg.Output.SQLFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "USE tmdp;", lines[0])
	assert.Contains(t, f.out.String(), "✓ - Wrote 3 statements")
}

func TestWriteSQLScriptCustomName(t *testing.T) {
	f := newFixture(t)
	custom := filepath.Join(f.dir, "custom.sql")
	f.session("s\n" + custom + "\nq\n").Run(context.Background())

	_, err := os.Stat(custom)
	assert.NoError(t, err)
	_, err = os.Stat(f.cfg.Output.SQLFile)
	assert.True(t, os.IsNotExist(err))
}

func TestOverwritePrompt(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		kept   bool
	}{
		{name: "decline", answer: "n", kept: true},
		{name: "empty declines", answer: "", kept: true},
		{name: "accept", answer: "y", kept: false},
		{name: "accept word", answer: "YES", kept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, os.WriteFile(f.cfg.Output.SQLFile, []byte("original"), 0644))

			f.session("s\n\n" + tt.answer + "\nq\n").Run(context.Background())

			data, err := os.ReadFile(f.cfg.Output.SQLFile)
			require.NoError(t, err)
			if tt.kept {
				assert.Equal(t, "original", string(data))
				assert.Contains(t, f.out.String(), "Cancelled.")
			} else {
				assert.True(t, strings.HasPrefix(string(data), "USE tmdp;"))
			}
			// The statement log is untouched either way.
			assert.Equal(t, 3, f.log.Len())
		})
	}
}

func TestWriteHTML(t *testing.T) {
	f := newFixture(t)
	f.session("w\n\nq\n").Run(context.Background())

	data, err := os.ReadFile(f.cfg.Output.HTMLFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<article class="post">`)
	assert.Contains(t, string(data), "User 100")
	assert.Contains(t, string(data), "1 like")
}

func TestWriteHTMLBadTemplate(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.HTMLTemplate = filepath.Join(f.dir, "missing.html")
	f.session("w\n\nq\n").Run(context.Background())

	assert.Contains(t, f.out.String(), "X - Failed to render HTML")
	_, err := os.Stat(f.cfg.Output.HTMLFile)
	assert.True(t, os.IsNotExist(err))
}

func TestWritePDF(t *testing.T) {
	f := newFixture(t)
	s := f.session("p\n\nq\n")

	var printedFrom string
	s.printPDF = func(_ context.Context, htmlPath, pdfPath string, _ *logrus.Logger) error {
		data, err := os.ReadFile(htmlPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "User 100")
		printedFrom = htmlPath
		return os.WriteFile(pdfPath, []byte("%PDF"), 0644)
	}
	s.Run(context.Background())

	require.NotEmpty(t, printedFrom)
	_, err := os.Stat(printedFrom)
	assert.True(t, os.IsNotExist(err), "temporary HTML should be removed")
	assert.Contains(t, f.out.String(), "✓ - Wrote PDF")
}

func TestWritePDFFailure(t *testing.T) {
	f := newFixture(t)
	s := f.session("p\n\nq\n")
	s.printPDF = func(context.Context, string, string, *logrus.Logger) error {
		return errors.New("no Chrome or Chromium browser found")
	}
	s.Run(context.Background())
	assert.Contains(t, f.out.String(), "X - no Chrome or Chromium browser found")
}

func TestRunStatementsSQLite(t *testing.T) {
	f := newFixture(t)
	f.session("r\n\nq\n").Run(context.Background())

	out := f.out.String()
	assert.Contains(t, out, "✓ - Executed 3 statements (3 rows inserted, 0 already present).")
	assert.Contains(t, out, "Rows in database:")
	assert.Equal(t, 1, f.monitor.GetMetrics().ExecutionRuns)
}

func TestRunStatementsPromptsForServerParameters(t *testing.T) {
	f := newFixture(t)
	f.cfg.Database.Driver = "mysql"

	s := f.session("r\ndb.example\n3307\nloader\nsecret\nmarketing\nq\n")
	var got config.DatabaseConfig
	s.connect = func(_ context.Context, cfg *config.DatabaseConfig, _ *logrus.Logger) (*database.DB, error) {
		got = *cfg
		return nil, errors.New("connection refused")
	}
	s.Run(context.Background())

	assert.Equal(t, "db.example", got.Host)
	assert.Equal(t, 3307, got.Port)
	assert.Equal(t, "loader", got.User)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "marketing", got.Name)
	assert.Contains(t, f.out.String(), "X - connection refused")
	assert.Equal(t, "localhost", f.cfg.Database.Host, "prompted values must not leak into config")
}

func TestRunStatementsStopsOnFailure(t *testing.T) {
	f := newFixture(t)
	f.cfg.Database.CreateSchema = false
	f.session("r\n\nq\n").Run(context.Background())

	assert.Contains(t, f.out.String(), "X - Executed 0 of 3 statements before failing")
	assert.InDelta(t, 100.0, f.monitor.GetMetrics().ErrorRate, 0.001)
}

func TestRunWithEmptyLog(t *testing.T) {
	f := newFixture(t)
	f.log = sqlgen.NewLog()
	f.session("r\nq\n").Run(context.Background())
	assert.Contains(t, f.out.String(), "No statements to run.")
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)
	s := f.session("")

	assert.False(t, s.Dispatch(context.Background(), "x"))
	assert.Contains(t, f.out.String(), `Unknown command "x"`)

	assert.False(t, s.Dispatch(context.Background(), "H"))
	assert.Contains(t, f.out.String(), "q  quit")

	assert.False(t, s.Dispatch(context.Background(), "m"))
	assert.Contains(t, f.out.String(), "Post Data Parser Monitoring Report")

	assert.True(t, s.Dispatch(context.Background(), " q "))
}

func TestRunEndsAtEOF(t *testing.T) {
	f := newFixture(t)
	f.session("v\n").Run(context.Background())
	assert.NotContains(t, f.out.String(), "Goodbye.")
}
