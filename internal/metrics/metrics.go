// Package metrics records pipeline counters and exports them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bft-labs/chainreport/pkg/log"
	"github.com/bft-labs/chainreport/pkg/thread"
)

// Recorder holds the pipeline metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	StatsRequests    *prometheus.CounterVec
	ReportRows       prometheus.Counter
	Completions      *prometheus.CounterVec
	CompletionTime   prometheus.Histogram
	Posts            *prometheus.CounterVec
	ThreadsPublished prometheus.Counter
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		StatsRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainreport_stats_requests_total",
				Help: "Stats API requests by metric and result",
			},
			[]string{"metric", "result"}, // ok, empty, unavailable, error
		),
		ReportRows: f.NewCounter(
			prometheus.CounterOpts{
				Name: "chainreport_report_rows_total",
				Help: "Rows written to daily report files",
			},
		),
		Completions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainreport_completions_total",
				Help: "Language model completions by provider and result",
			},
			[]string{"provider", "result"},
		),
		CompletionTime: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chainreport_completion_duration_seconds",
				Help:    "Language model completion latency",
				Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		Posts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainreport_posts_total",
				Help: "Posts by result",
			},
			[]string{"result"}, // published, failed
		),
		ThreadsPublished: f.NewCounter(
			prometheus.CounterOpts{
				Name: "chainreport_threads_published_total",
				Help: "Threads published completely",
			},
		),
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainreport_runs_total",
				Help: "Pipeline runs by outcome kind",
			},
			[]string{"kind"},
		),
		RunDuration: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "chainreport_last_run_duration_seconds",
				Help: "Duration of the last pipeline run",
			},
		),
		LastSuccess: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "chainreport_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
		),
	}
}

// Registry exposes the registry for gathering in tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveRun records the outcome of one pipeline run.
func (r *Recorder) ObserveRun(kind string, d time.Duration, ok bool) {
	r.RunsTotal.WithLabelValues(kind).Inc()
	r.RunDuration.Set(d.Seconds())
	if ok {
		r.LastSuccess.SetToCurrentTime()
	}
}

// WriteTextfile writes all metrics to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// ThreadObserver returns a thread.Observer that counts posts and logs
// state transitions at debug level.
func (r *Recorder) ThreadObserver(logger log.Logger) thread.Observer {
	return &threadObserver{r: r, logger: logger}
}

type threadObserver struct {
	r      *Recorder
	logger log.Logger
}

func (o *threadObserver) OnStateChange(previous, current thread.State, reason string) {
	o.logger.Debug("thread state",
		log.String("from", previous.String()),
		log.String("to", current.String()),
		log.String("reason", reason),
	)
	if current == thread.StateDone && previous != thread.StateIdle {
		o.r.ThreadsPublished.Inc()
	}
}

func (o *threadObserver) OnPosted(post thread.Post) {
	o.r.Posts.WithLabelValues("published").Inc()
}

func (o *threadObserver) OnFailed(index int, err error) {
	o.r.Posts.WithLabelValues("failed").Inc()
}
