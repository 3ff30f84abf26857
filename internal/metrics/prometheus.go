// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the volunteer management service.
var (
	// Counters.
	AwardsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awards_granted_total",
			Help: "Total number of awards granted",
		},
		[]string{"tier", "source"},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_checkins_total",
			Help: "Total number of volunteer check-ins recorded",
		},
	)

	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_checkouts_total",
			Help: "Total number of volunteer check-outs recorded",
		},
	)

	TimesheetTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timesheet_transitions_total",
			Help: "Total timesheet approval workflow transitions",
		},
		[]string{"status"},
	)

	// Gauges.
	PendingApprovals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timesheet_pending_approvals",
			Help: "Current number of timesheets awaiting approval",
		},
	)

	// Histograms.
	TimesheetHours = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timesheet_total_hours",
			Help:    "Total hours per generated timesheet",
			Buckets: prometheus.LinearBuckets(0, 10, 10), // 0 to 90 hours
		},
	)

	// Award evaluation job metrics.
	AwardEvaluationJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "award_evaluation_jobs_run_total",
			Help: "Total award evaluation job executions",
		},
		[]string{"status"},
	)

	AwardEvaluationDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "award_evaluation_duration_seconds",
			Help:    "Time taken to execute the award evaluation job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~1024s
		},
	)
)

// RecordAwardGranted records a granted award by tier and source ("auto" or "manual").
func RecordAwardGranted(tier, source string) {
	AwardsGrantedTotal.WithLabelValues(tier, source).Inc()
}

// RecordCheckIn records a volunteer check-in.
func RecordCheckIn() {
	CheckInsTotal.Inc()
}

// RecordCheckOut records a volunteer check-out.
func RecordCheckOut() {
	CheckOutsTotal.Inc()
}

// RecordTimesheetTransition records a timesheet status transition.
func RecordTimesheetTransition(status string) {
	TimesheetTransitionsTotal.WithLabelValues(status).Inc()
}

// SetPendingApprovals sets the current number of pending timesheets.
func SetPendingApprovals(count int) {
	PendingApprovals.Set(float64(count))
}

// ObserveTimesheetHours records the hour total of a generated timesheet.
func ObserveTimesheetHours(hours float64) {
	TimesheetHours.Observe(hours)
}

// RecordEvaluationRun records an award evaluation job execution.
func RecordEvaluationRun(status string) {
	AwardEvaluationJobsRunTotal.WithLabelValues(status).Inc()
}

// ObserveEvaluationDuration records the duration of an award evaluation job.
func ObserveEvaluationDuration(seconds float64) {
	AwardEvaluationDurationSeconds.Observe(seconds)
}
