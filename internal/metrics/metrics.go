package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for HTTP requests and employee creations,
// a counter for rejected duplicate emails, and histograms for
// request and database query durations.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EmployeesCreated    prometheus.Counter
	DuplicateEmails     prometheus.Counter
	DBQueryDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pallas_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pallas_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pallas_employees_created_total",
			Help: "Total number of employees created.",
		}),
		DuplicateEmails: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pallas_duplicate_emails_total",
			Help: "Total number of employee creations rejected because of an existing email.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pallas_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'find_employee_by_id', 'save_employee'
	}

	return metrics
}

// ObserveQuery records the duration of a database query in seconds.
func (m *Metrics) ObserveQuery(queryType string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(seconds)
}
