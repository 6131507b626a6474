package tanks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/plus3/tankfield/tanks"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics exports simulation counters through OpenTelemetry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	spawned   metric.Int64Counter
	despawned metric.Int64Counter
	live      metric.Int64ObservableGauge
	tick      metric.Float64Histogram

	liveCount atomic.Int64
}

// NewMetrics creates the simulation instruments on m. When m is nil the global
// OTel meter is used (no-op if not configured).
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = meter()
	}
	mt := &Metrics{}

	var err error
	mt.spawned, err = m.Int64Counter(
		"tanks.projectiles.spawned",
		metric.WithDescription("Total projectiles fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}

	mt.despawned, err = m.Int64Counter(
		"tanks.projectiles.despawned",
		metric.WithDescription("Total projectiles removed after coming to rest"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating despawned counter: %w", err)
	}

	mt.live, err = m.Int64ObservableGauge(
		"tanks.projectiles.live",
		metric.WithDescription("Projectiles alive at the end of the last tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(mt.live, mt.liveCount.Load())
			return nil
		},
		mt.live,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live callback: %w", err)
	}

	mt.tick, err = m.Float64Histogram(
		"tanks.tick.duration",
		metric.WithDescription("Wall time spent in one simulation tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	return mt, nil
}

func (m *Metrics) addSpawned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.spawned.Add(context.Background(), int64(n))
}

func (m *Metrics) addDespawned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.despawned.Add(context.Background(), int64(n))
}

func (m *Metrics) setLive(n int) {
	if m == nil {
		return
	}
	m.liveCount.Store(int64(n))
}

func (m *Metrics) recordTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tick.Record(context.Background(), d.Seconds())
}
