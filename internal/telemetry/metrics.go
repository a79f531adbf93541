package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики движка. Экспортируются на /metrics
// через promhttp (см. cmd/bosun-server).
var (
	// DeploymentsStarted — количество запущенных прогонов.
	DeploymentsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bosun_deployments_started_total",
		Help: "Number of deployment runs started.",
	})

	// DeploymentsFinished — количество завершённых прогонов по статусу.
	DeploymentsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bosun_deployments_finished_total",
		Help: "Number of deployment runs finished, by terminal status.",
	}, []string{"status"})

	// StepsFinished — количество завершённых шагов по статусу.
	StepsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bosun_steps_finished_total",
		Help: "Number of deployment steps finished, by terminal status.",
	}, []string{"status"})

	// StepDuration — длительность шага от запуска до финального статуса.
	StepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bosun_step_duration_seconds",
		Help:    "Duration of deployment steps from dispatch to terminal status.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// OrderPolls — количество опросов orders.
	OrderPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bosun_order_polls_total",
		Help: "Number of order status polls issued.",
	})

	// OrderPollErrors — количество неудачных опросов (transient).
	OrderPollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bosun_order_poll_errors_total",
		Help: "Number of order status polls that failed and were retried.",
	})
)
