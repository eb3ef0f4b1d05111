// Package metrics exposes engine counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the engine's metrics and implements combat.Observer.
//
// Metrics:
//   - vimy_squads_phase_transitions_total{from,to}
//   - vimy_squads_engagement_flips_total{squad_kind,decision}
//   - vimy_squads_oracle_results_total{result}
//   - vimy_squads_oracle_errors_total
//   - vimy_squads_tracked
//   - vimy_squads_tick_duration_seconds
//   - vimy_squads_rounds_total{outcome}
type Recorder struct {
	PhaseTransitions *prometheus.CounterVec
	EngagementFlips  *prometheus.CounterVec
	OracleResults    *prometheus.CounterVec
	OracleErrors     prometheus.Counter
	Tracked          prometheus.Gauge
	TickDuration     prometheus.Histogram
	Rounds           *prometheus.CounterVec
}

// New registers every metric on reg. Each registry may hold one Recorder.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		PhaseTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vimy_squads_phase_transitions_total",
			Help: "Squad phase changes by source and destination phase",
		}, []string{"from", "to"}),
		EngagementFlips: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vimy_squads_engagement_flips_total",
			Help: "Engage or disengage decisions by squad kind",
		}, []string{"squad_kind", "decision"}),
		OracleResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vimy_squads_oracle_results_total",
			Help: "Combat oracle verdicts",
		}, []string{"result"}),
		OracleErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "vimy_squads_oracle_errors_total",
			Help: "Oracle calls that failed or returned an unknown result",
		}),
		Tracked: f.NewGauge(prometheus.GaugeOpts{
			Name: "vimy_squads_tracked",
			Help: "Squads with a live track record",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vimy_squads_tick_duration_seconds",
			Help:    "Time spent deciding one game state",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		Rounds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vimy_squads_rounds_total",
			Help: "Finished combat rounds by outcome",
		}, []string{"outcome"}),
	}
}

func (r *Recorder) PhaseTransition(from, to combat.Phase) {
	r.PhaseTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (r *Recorder) EngagementFlip(main, engaging bool) {
	kind := "local"
	if main {
		kind = "main"
	}
	decision := "disengage"
	if engaging {
		decision = "engage"
	}
	r.EngagementFlips.WithLabelValues(kind, decision).Inc()
}

func (r *Recorder) OracleResult(res combat.EngagementResult) {
	r.OracleResults.WithLabelValues(res.String()).Inc()
}

func (r *Recorder) OracleError() { r.OracleErrors.Inc() }

func (r *Recorder) TrackedSquads(n int) { r.Tracked.Set(float64(n)) }

// ObserveTick records how long one tick took.
func (r *Recorder) ObserveTick(d time.Duration) { r.TickDuration.Observe(d.Seconds()) }

// RoundFinished counts a finished round.
func (r *Recorder) RoundFinished(outcome string) { r.Rounds.WithLabelValues(outcome).Inc() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
