package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reconcileOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipes_reconcile_operations_total",
		Help: "Total number of child entity operations planned by reconciliation",
	},
	[]string{"collection", "action"},
)

func recordPlan(s PlanSummary) {
	reconcileOperations.WithLabelValues(s.Collection, string(ActionInsert)).Add(float64(s.Added))
	reconcileOperations.WithLabelValues(s.Collection, string(ActionUpdate)).Add(float64(s.Updated))
	reconcileOperations.WithLabelValues(s.Collection, string(ActionDelete)).Add(float64(s.Deleted))
	reconcileOperations.WithLabelValues(s.Collection, "unchanged").Add(float64(s.Unchanged))
}
