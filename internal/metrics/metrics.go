package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"birthdays/internal/logger"
)

var (
	submissionsByStatusDesc = prometheus.NewDesc(
		"birthdays_submissions",
		"Current number of submissions by review status",
		[]string{"status"},
		nil,
	)

	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "birthdays_submission_attempts_total",
		Help: "Anonymous submission attempts by outcome",
	}, []string{"outcome"})

	reviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "birthdays_reviews_total",
		Help: "Review decisions by action and outcome",
	}, []string{"action", "outcome"})

	notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "birthdays_notifications_total",
		Help: "New-submission notifications by dispatch mode and outcome",
	}, []string{"mode", "outcome"})

	linksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "birthdays_sharing_link_events_total",
		Help: "Sharing link lifecycle events",
	}, []string{"event"})
)

// StatusCounter reports how many submissions are in each status.
type StatusCounter interface {
	CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error)
}

// SubmissionCollector is a custom Prometheus collector that reads submission
// counts from the database on each scrape.
type SubmissionCollector struct {
	store StatusCounter
}

// NewSubmissionCollector creates a collector over store.
func NewSubmissionCollector(store StatusCounter) *SubmissionCollector {
	return &SubmissionCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *SubmissionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- submissionsByStatusDesc
}

// Collect queries the database for submission counts and emits them as gauges.
func (c *SubmissionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.store.CountSubmissionsByStatus(ctx)
	if err != nil {
		logger.Error("failed to collect submission metrics", zap.Error(err))
		return
	}
	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			submissionsByStatusDesc,
			prometheus.GaugeValue,
			float64(n),
			status,
		)
	}
}

var registerOnce sync.Once

// Init registers the collector and counters with the default registry.
// Must be called once at startup.
func Init(store StatusCounter) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			NewSubmissionCollector(store),
			submissionsTotal,
			reviewsTotal,
			notificationsTotal,
			linksTotal,
		)
	})
}

// RecordSubmission counts one submission attempt.
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordReview counts one import or reject decision.
func RecordReview(action, outcome string) {
	reviewsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordNotification counts one dispatch decision.
func RecordNotification(mode, outcome string) {
	notificationsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordLinkEvent counts a link being created, revoked or purged.
func RecordLinkEvent(event string, n int) {
	linksTotal.WithLabelValues(event).Add(float64(n))
}
