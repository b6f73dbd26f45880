package monitoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"post-data-parser/internal/utils"
)

type Metrics struct {
	ParseRuns           int                    `json:"parse_runs"`
	ExecutionRuns       int                    `json:"execution_runs"`
	StatementsGenerated int                    `json:"statements_generated"`
	StatementsExecuted  int                    `json:"statements_executed"`
	FailedExecutions    int                    `json:"failed_executions"`
	LastRun             time.Time              `json:"last_run"`
	AverageRunTime      time.Duration          `json:"average_run_time"`
	ErrorRate           float64                `json:"error_rate"`
	TableMetrics        map[string]TableMetric `json:"table_metrics"`
}

type TableMetric struct {
	StatementsGenerated int       `json:"statements_generated"`
	LastGenerated       time.Time `json:"last_generated"`
}

// Monitor keeps run metrics and persists them to a JSON file after each
// recorded run.
type Monitor struct {
	metrics     *Metrics
	logger      *logrus.Logger
	metricsFile string
	now         func() time.Time
}

func NewMonitor(logger *logrus.Logger, metricsFile string) *Monitor {
	monitor := &Monitor{
		metrics: &Metrics{
			TableMetrics: make(map[string]TableMetric),
		},
		logger:      logger,
		metricsFile: metricsFile,
		now:         time.Now,
	}

	monitor.loadMetrics()
	return monitor
}

// RecordParse records a walk that produced the given per-table counts.
func (m *Monitor) RecordParse(counts map[string]int, duration time.Duration) {
	total := 0
	now := m.now()
	for table, n := range counts {
		total += n
		tm := m.metrics.TableMetrics[table]
		tm.StatementsGenerated += n
		tm.LastGenerated = now
		m.metrics.TableMetrics[table] = tm
	}

	m.metrics.ParseRuns++
	m.metrics.StatementsGenerated += total
	m.recordRun(duration)

	m.logger.Infof("Recorded parse run: %d statements, %v duration", total, duration)
}

// RecordExecution records a database run. failed is true when the run
// stopped on a statement error.
func (m *Monitor) RecordExecution(executed int, failed bool, duration time.Duration) {
	m.metrics.ExecutionRuns++
	m.metrics.StatementsExecuted += executed
	if failed {
		m.metrics.FailedExecutions++
	}
	m.metrics.ErrorRate = float64(m.metrics.FailedExecutions) / float64(m.metrics.ExecutionRuns) * 100
	m.recordRun(duration)

	m.logger.Infof("Recorded execution run: %d statements, %v duration, failed=%t", executed, duration, failed)
}

func (m *Monitor) recordRun(duration time.Duration) {
	runs := m.metrics.ParseRuns + m.metrics.ExecutionRuns
	if runs > 1 {
		m.metrics.AverageRunTime = (m.metrics.AverageRunTime + duration) / 2
	} else {
		m.metrics.AverageRunTime = duration
	}
	m.metrics.LastRun = m.now()
	m.saveMetrics()
}

func (m *Monitor) GetMetrics() *Metrics {
	return m.metrics
}

func (m *Monitor) GetHealthStatus() map[string]interface{} {
	status := map[string]interface{}{
		"status":          "healthy",
		"last_run":        m.metrics.LastRun.Format(time.RFC3339),
		"total_runs":      m.metrics.ParseRuns + m.metrics.ExecutionRuns,
		"error_rate":      fmt.Sprintf("%.2f%%", m.metrics.ErrorRate),
		"average_runtime": m.metrics.AverageRunTime.String(),
	}

	if m.metrics.ErrorRate > 10 {
		status["status"] = "warning"
		status["warning"] = "High execution failure rate detected"
	}

	return status
}

func (m *Monitor) GenerateReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, `
Post Data Parser Monitoring Report
==================================
Generated: %s

Overall Statistics:
- Parse Runs: %d
- Execution Runs: %d
- Statements Generated: %d
- Statements Executed: %d
- Failed Executions: %d
- Error Rate: %.2f%%
- Average Run Time: %s
- Last Run: %s

Table Breakdown:
`,
		utils.FormatTimestamp(m.now()),
		m.metrics.ParseRuns,
		m.metrics.ExecutionRuns,
		m.metrics.StatementsGenerated,
		m.metrics.StatementsExecuted,
		m.metrics.FailedExecutions,
		m.metrics.ErrorRate,
		m.metrics.AverageRunTime,
		utils.FormatTimestamp(m.metrics.LastRun),
	)

	tables := make([]string, 0, len(m.metrics.TableMetrics))
	for table := range m.metrics.TableMetrics {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		metric := m.metrics.TableMetrics[table]
		fmt.Fprintf(&b, "- %s: %d statements (last %s)\n",
			table, metric.StatementsGenerated, utils.FormatTimestamp(metric.LastGenerated))
	}

	return b.String()
}

func (m *Monitor) loadMetrics() {
	if _, err := os.Stat(m.metricsFile); os.IsNotExist(err) {
		m.logger.Info("No existing metrics file found, starting fresh")
		return
	}

	data, err := os.ReadFile(m.metricsFile)
	if err != nil {
		m.logger.Warnf("Failed to read metrics file: %v", err)
		return
	}

	if err := json.Unmarshal(data, m.metrics); err != nil {
		m.logger.Warnf("Failed to parse metrics file: %v", err)
		return
	}
	if m.metrics.TableMetrics == nil {
		m.metrics.TableMetrics = make(map[string]TableMetric)
	}

	m.logger.Info("Loaded existing metrics from file")
}

func (m *Monitor) saveMetrics() {
	if m.metricsFile == "" {
		return
	}

	data, err := json.MarshalIndent(m.metrics, "", "  ")
	if err != nil {
		m.logger.Errorf("Failed to marshal metrics: %v", err)
		return
	}

	if dir := filepath.Dir(m.metricsFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			m.logger.Errorf("Failed to create metrics directory: %v", err)
			return
		}
	}

	if err := os.WriteFile(m.metricsFile, data, 0644); err != nil {
		m.logger.Errorf("Failed to save metrics: %v", err)
		return
	}
}

// AlertManager handles alerting based on metrics
type AlertManager struct {
	monitor *Monitor
	logger  *logrus.Logger
}

func NewAlertManager(monitor *Monitor, logger *logrus.Logger) *AlertManager {
	return &AlertManager{
		monitor: monitor,
		logger:  logger,
	}
}

func (am *AlertManager) CheckAlerts() []string {
	var alerts []string
	metrics := am.monitor.GetMetrics()

	if metrics.ParseRuns == 0 {
		alerts = append(alerts, "ALERT: Post data has never been parsed")
	}

	if metrics.ErrorRate > 15 {
		alerts = append(alerts, fmt.Sprintf("ALERT: High execution failure rate: %.2f%%", metrics.ErrorRate))
	}

	if metrics.ParseRuns > 0 && metrics.StatementsGenerated == 0 {
		alerts = append(alerts, "ALERT: No statements have been generated")
	}

	return alerts
}

func (am *AlertManager) SendAlerts(alerts []string) {
	for _, alert := range alerts {
		am.logger.Warn(alert)
	}
}
