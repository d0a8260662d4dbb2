package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modelcheck_parsing_seconds",
		Help:    "Time spent parsing a Python source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modelcheck_analysis_seconds",
		Help:    "Time spent on one full fixed-point analysis run.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisPasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modelcheck_analysis_passes",
		Help:    "Number of semantic analysis passes per run.",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
	})

	ModelClasses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modelcheck_model_classes_total",
		Help: "Model classes discovered in the last scan.",
	})

	InjectedSymbols = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modelcheck_injected_symbols_total",
		Help: "Synthetic symbols injected into model classes, by injector.",
	}, []string{"injector"})

	Deferrals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelcheck_deferrals_total",
		Help: "Incomplete-definition signals that requested another pass.",
	})

	FinalPassIncomplete = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelcheck_final_pass_incomplete_total",
		Help: "Incomplete-definition signals swallowed on the final pass.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelcheck_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	WatcherRescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modelcheck_watcher_rescans_total",
		Help: "Re-analysis runs triggered by the watcher.",
	})
)
