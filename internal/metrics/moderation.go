package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Moderation Prometheus metrics. Standalone package to avoid import cycles
// between the service layer and the HTTP package.

var (
	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_moderation_actions_total",
		Help: "Acciones privilegiadas ejecutadas, por action type",
	}, []string{"action"})

	ReportsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_reports_created_total",
		Help: "Reports de abuso creados",
	})

	ReportsClosed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_reports_closed_total",
		Help: "Reports cerrados, por outcome (resolved|dismissed)",
	}, []string{"outcome"})

	PermCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_permission_cache_hits_total",
		Help: "Hits del cache de permisos",
	})

	PermCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_permission_cache_misses_total",
		Help: "Misses del cache de permisos",
	})
)

// Register registra las métricas de moderación en el registry dado
// (default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		ActionsTotal, ReportsCreated, ReportsClosed, PermCacheHits, PermCacheMisses,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
