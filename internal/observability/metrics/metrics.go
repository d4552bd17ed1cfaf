// Package metrics registers the prometheus instruments the application emits.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	UsageRecords     *prometheus.CounterVec
	UsageCost        *prometheus.CounterVec
	BalanceAlerts    *prometheus.CounterVec
	CommitsIngested  prometheus.Counter
	ReportsPublished *prometheus.CounterVec
	JobRuns          *prometheus.CounterVec
	JobErrors        *prometheus.CounterVec
}

var (
	mu       sync.Mutex
	instance *Metrics
)

// New registers the instruments on the default registerer. Registration is
// process-wide; repeated calls return the same set.
func New() *Metrics {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance
	}
	instance = &Metrics{
		UsageRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_usage_records_total",
			Help: "Metered LLM usage records written to the ledger.",
		}, []string{"model", "operation"}),
		UsageCost: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_usage_cost_microdollars_total",
			Help: "Accrued LLM cost in micro-dollars.",
		}, []string{"model"}),
		BalanceAlerts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_balance_alerts_total",
			Help: "Low-balance alerts emitted on deduction.",
		}, []string{"severity"}),
		CommitsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "devrecap_commits_ingested_total",
			Help: "Commit facts ingested from source control.",
		}),
		ReportsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_reports_published_total",
			Help: "Reports handed to publishing targets.",
		}, []string{"target"}),
		JobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_scheduler_job_runs_total",
			Help: "Scheduler job executions.",
		}, []string{"job"}),
		JobErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devrecap_scheduler_job_errors_total",
			Help: "Scheduler job failures.",
		}, []string{"job"}),
	}
	return instance
}

// ResetForTest drops the cached instance so tests can install a fresh
// registry via prometheus.DefaultRegisterer swapping.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
