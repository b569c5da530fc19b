package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records metadata for catalog workflows.
type CatalogMetrics struct {
	duration        *prometheus.HistogramVec
	created         prometheus.Counter
	deleted         prometheus.Counter
	workflowFailure *prometheus.CounterVec
	cleanupFailure  *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog workflow metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_workflow_duration_seconds",
		Help:    "Duration of catalog workflows in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"workflow"})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created",
		Help: "Products created through the console.",
	})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deleted",
		Help: "Products deleted through the console.",
	})
	workflowFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_workflow_failure",
		Help: "Failed catalog workflow executions.",
	}, []string{"workflow"})
	cleanupFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cleanup_failure",
		Help: "Object cleanup failures left behind by catalog workflows.",
	}, []string{"workflow"})
	reg.MustRegister(duration, created, deleted, workflowFailure, cleanupFailure)
	return &CatalogMetrics{
		duration:        duration,
		created:         created,
		deleted:         deleted,
		workflowFailure: workflowFailure,
		cleanupFailure:  cleanupFailure,
	}
}

// ObserveDuration records the duration for the named workflow.
func (c *CatalogMetrics) ObserveDuration(workflow string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(workflow)).Observe(duration.Seconds())
}

// IncCreated increments the created-products counter.
func (c *CatalogMetrics) IncCreated() {
	if c == nil || c.created == nil {
		return
	}
	c.created.Inc()
}

// IncDeleted increments the deleted-products counter.
func (c *CatalogMetrics) IncDeleted() {
	if c == nil || c.deleted == nil {
		return
	}
	c.deleted.Inc()
}

// IncWorkflowFailure increments the failure counter for the named workflow.
func (c *CatalogMetrics) IncWorkflowFailure(workflow string) {
	if c == nil || c.workflowFailure == nil {
		return
	}
	c.workflowFailure.WithLabelValues(normalizeLabel(workflow)).Inc()
}

// AddCleanupFailures records objects a workflow failed to clean up.
func (c *CatalogMetrics) AddCleanupFailures(workflow string, count int) {
	if c == nil || c.cleanupFailure == nil || count <= 0 {
		return
	}
	c.cleanupFailure.WithLabelValues(normalizeLabel(workflow)).Add(float64(count))
}

func normalizeLabel(workflow string) string {
	if workflow == "" {
		return "unknown"
	}
	return workflow
}
