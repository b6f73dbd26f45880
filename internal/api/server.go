package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"post-data-parser/internal/config"
	"post-data-parser/internal/export"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/pkg/types"
)

type Server struct {
	log     *sqlgen.Log
	doc     *types.PostData
	cfg     *config.Config
	monitor *monitoring.Monitor
	logger  *logrus.Logger
	port    string
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   int         `json:"count,omitempty"`
}

// StatementView is one generated statement as served by /api/statements.
type StatementView struct {
	Index   int            `json:"index"`
	Table   string         `json:"table"`
	SQL     string         `json:"sql"`
	Columns []string       `json:"columns"`
	Values  map[string]any `json:"values"`
}

type StatsResponse struct {
	TotalStatements int            `json:"total_statements"`
	Posts           int            `json:"posts"`
	Tables          map[string]int `json:"tables"`
}

func NewServer(log *sqlgen.Log, doc *types.PostData, cfg *config.Config, monitor *monitoring.Monitor,
	logger *logrus.Logger, port string) *Server {
	return &Server{
		log:     log,
		doc:     doc,
		cfg:     cfg,
		monitor: monitor,
		logger:  logger,
		port:    port,
	}
}

func (s *Server) Start() error {
	s.logger.Infof("Starting API server on port %s", s.port)
	return http.ListenAndServe(":"+s.port, s.Handler())
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.corsMiddleware(s.handleRoot))
	mux.HandleFunc("/api/statements", s.corsMiddleware(s.handleStatements))
	mux.HandleFunc("/api/stats", s.corsMiddleware(s.handleStats))
	mux.HandleFunc("/api/export/sql", s.corsMiddleware(s.handleExportSQL))
	mux.HandleFunc("/api/health", s.corsMiddleware(s.handleHealth))
	mux.HandleFunc("/dashboard", s.corsMiddleware(s.handleDashboard))
	return mux
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodGet {
			s.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, "Not found", http.StatusNotFound)
		return
	}
	response := APIResponse{
		Success: true,
		Data: map[string]string{
			"message":   "Post Data Parser API",
			"version":   "1.0.0",
			"endpoints": "/api/statements, /api/stats, /api/export/sql, /api/health, /dashboard",
		},
	}
	s.writeJSON(w, response)
}

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table != "" && !knownTable(table) {
		s.writeError(w, fmt.Sprintf("Unknown table %q", table), http.StatusBadRequest)
		return
	}

	views := make([]StatementView, 0, s.log.Len())
	for i, stmt := range s.log.Statements() {
		if table != "" && stmt.Table != table {
			continue
		}
		values := make(map[string]any, len(stmt.Fields))
		for _, f := range stmt.Fields {
			values[f.Name] = f.Value
		}
		views = append(views, StatementView{
			Index:   i + 1,
			Table:   stmt.Table,
			SQL:     stmt.SQL(),
			Columns: stmt.Columns(),
			Values:  values,
		})
	}

	response := APIResponse{
		Success: true,
		Data:    views,
		Count:   len(views),
	}
	s.writeJSON(w, response)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	posts := 0
	if s.doc != nil {
		posts = len(s.doc.Posts)
	}
	response := APIResponse{
		Success: true,
		Data: StatsResponse{
			TotalStatements: s.log.Len(),
			Posts:           posts,
			Tables:          s.log.CountByTable(),
		},
	}
	s.writeJSON(w, response)
}

func (s *Server) handleExportSQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/sql")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=post_data_%s.sql", time.Now().Format("2006-01-02")))

	if err := export.WriteSQLScript(w, s.cfg.Database.Name, s.log.Statements()); err != nil {
		s.logger.Errorf("Failed to write SQL export: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().Format(time.RFC3339),
		"statements": s.log.Len(),
	}
	if s.monitor != nil {
		for k, v := range s.monitor.GetHealthStatus() {
			data["metrics_"+k] = v
		}
	}

	response := APIResponse{
		Success: true,
		Data:    data,
	}
	s.writeJSON(w, response)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tmpl, err := export.LoadTemplate(s.cfg.Output.HTMLTemplate)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var posts []types.Post
	if s.doc != nil {
		posts = s.doc.Posts
	}
	html, err := export.RenderHTML(tmpl, posts)
	if err != nil {
		s.writeError(w, fmt.Sprintf("Failed to render posts: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func knownTable(name string) bool {
	for _, t := range sqlgen.Tables {
		if t == name {
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}
	json.NewEncoder(w).Encode(response)
}
