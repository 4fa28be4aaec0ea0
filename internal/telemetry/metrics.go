package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds the game's OTel instruments. A nil *Metrics records nothing.
type Metrics struct {
	factorizeDuration metric.Float64Histogram
	guesses           metric.Int64Counter
	roundsStarted     metric.Int64Counter
}

// NewMetrics creates the instruments on meter. A nil meter uses a no-op meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("frenzy")
	}
	d, err := meter.Float64Histogram("frenzy.factorize.duration",
		metric.WithDescription("Wall-clock time spent in trial division"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	g, err := meter.Int64Counter("frenzy.guesses",
		metric.WithDescription("Guesses evaluated, by correctness"))
	if err != nil {
		return nil, err
	}
	r, err := meter.Int64Counter("frenzy.rounds.started",
		metric.WithDescription("Challenge rounds started, by pool"))
	if err != nil {
		return nil, err
	}
	return &Metrics{factorizeDuration: d, guesses: g, roundsStarted: r}, nil
}

// RecordFactorize records one factorization's elapsed seconds.
func (m *Metrics) RecordFactorize(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.factorizeDuration.Record(ctx, seconds)
}

// RecordGuess counts an evaluated guess.
func (m *Metrics) RecordGuess(ctx context.Context, correct bool) {
	if m == nil {
		return
	}
	m.guesses.Add(ctx, 1, metric.WithAttributes(attribute.Bool("correct", correct)))
}

// RecordRoundStarted counts a new round drawn from pool.
func (m *Metrics) RecordRoundStarted(ctx context.Context, pool string) {
	if m == nil {
		return
	}
	m.roundsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("pool", pool)))
}
