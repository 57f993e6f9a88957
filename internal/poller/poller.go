// Package poller runs the fetch-normalize-merge-publish cycle on a jittered
// interval and owns the published snapshot.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wolkenbruch/swissmeteo-etl/internal/config"
	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
)

// StationSource provides the freshest observation for a station code. The
// boolean is false when the station is absent from the feed.
type StationSource interface {
	CurrentForStation(ctx context.Context, code string) (domain.CurrentObservation, bool, error)
}

// ForecastSource provides the raw forecast payload for a postal code.
type ForecastSource interface {
	Forecast(ctx context.Context, postCode string) (*domain.ForecastPayload, error)
}

// SnapshotSink receives every successfully assembled snapshot.
type SnapshotSink interface {
	Publish(ctx context.Context, snap *domain.Snapshot) error
}

// Poller periodically fetches both feeds, assembles a snapshot, and publishes
// it with an atomic replace. A failed cycle leaves the previous snapshot in
// place.
type Poller struct {
	stations  StationSource
	forecasts ForecastSource
	sink      SnapshotSink // nil when the Kafka sink is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
	clk       clockwork.Clock

	postCode    string
	stationCode string
	intervalMin time.Duration
	intervalMax time.Duration
	maxAge      time.Duration

	snapshot atomic.Pointer[domain.Snapshot]
	ready    atomic.Bool
}

// New creates a Poller. sink may be nil to disable snapshot publishing.
func New(cfg *config.Config, stations StationSource, forecasts ForecastSource, sink SnapshotSink, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		stations:    stations,
		forecasts:   forecasts,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
		clk:         clockwork.NewRealClock(),
		postCode:    cfg.PostCode,
		stationCode: cfg.StationCode,
		intervalMin: cfg.PollIntervalMin,
		intervalMax: cfg.PollIntervalMax,
		maxAge:      cfg.ForecastMaxAge,
	}
}

// SetClock swaps the poller's time source for tests. Pass nil to reset to
// real time.
func (p *Poller) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clk = clockwork.NewRealClock()
		return
	}
	p.clk = c
}

// Latest returns the most recently published snapshot, or nil before the
// first successful cycle. The snapshot is immutable; callers must not modify
// it.
func (p *Poller) Latest() *domain.Snapshot {
	return p.snapshot.Load()
}

// CheckReadiness returns nil once at least one snapshot has been published.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot published yet")
	}
	return nil
}

// Run executes poll cycles until the context is cancelled. The first cycle
// starts immediately; later cycles are spaced by a uniformly jittered
// interval so every instance does not hit the upstream at the same minute.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started",
		"post_code", p.postCode,
		"station", p.stationCode,
		"interval_min", p.intervalMin,
		"interval_max", p.intervalMax,
	)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	for {
		if err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("poller stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("poll failed, keeping previous snapshot", "error", err)
		}

		if !p.sleep(ctx, p.nextInterval()) {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Poll runs one complete cycle: fetch the station feed (best effort), fetch
// the forecast feed (mandatory), assemble, publish. The published snapshot is
// replaced wholesale; readers never observe a partial update.
func (p *Poller) Poll(ctx context.Context) error {
	start := time.Now()
	p.metrics.PollsTotal.Inc()

	obs, haveStation := p.observe(ctx)

	payload, err := p.forecasts.Forecast(ctx, p.postCode)
	if err != nil {
		p.metrics.PollErrors.Inc()
		return fmt.Errorf("forecast feed: %w", err)
	}

	forecast := domain.AssembleForecast(payload, p.maxAge)
	if payload.Graph != nil && forecast.Hourly == nil {
		p.logger.Warn("graph section unmergeable, no fine-grained forecast this cycle")
		p.metrics.UnmergeableGraphs.Inc()
	}

	if !haveStation {
		obs = domain.FallbackObservation(forecast.Current)
	}

	snap := &domain.Snapshot{
		PostCode:    p.postCode,
		Observation: obs,
		Forecast:    forecast,
		AssembledAt: p.clk.Now().UTC(),
	}
	p.snapshot.Store(snap)
	p.ready.Store(true)

	p.metrics.LastPollSuccess.Set(float64(snap.AssembledAt.Unix()))
	p.metrics.MergedPoints.Observe(float64(len(forecast.Hourly)))
	p.metrics.PollDuration.Observe(time.Since(start).Seconds())

	if p.sink != nil {
		// A sink failure does not invalidate the local snapshot.
		if err := p.sink.Publish(ctx, snap); err != nil {
			p.logger.Warn("sink publish failed", "error", err)
			p.metrics.SinkPublishErrors.Inc()
		} else {
			p.metrics.SinkPublished.Inc()
		}
	}

	p.logger.Info("snapshot published",
		"station_used", haveStation,
		"daily_points", len(forecast.Daily),
		"hourly_points", len(forecast.Hourly),
	)
	return nil
}

// observe fetches the station observation. Any miss or failure falls back to
// the forecast feed's current weather; the cycle itself never fails here.
func (p *Poller) observe(ctx context.Context) (domain.CurrentObservation, bool) {
	if p.stationCode == "" {
		return domain.CurrentObservation{}, false
	}

	obs, ok, err := p.stations.CurrentForStation(ctx, p.stationCode)
	if err != nil {
		p.logger.Warn("station feed failed, using forecast current weather", "error", err)
		return domain.CurrentObservation{}, false
	}
	if !ok {
		p.logger.Warn("station not found in feed", "station", p.stationCode)
		p.metrics.StationLookupMisses.Inc()
		return domain.CurrentObservation{}, false
	}
	return obs, true
}

// nextInterval draws a uniform duration between the configured bounds.
func (p *Poller) nextInterval() time.Duration {
	span := p.intervalMax - p.intervalMin
	if span <= 0 {
		return p.intervalMin
	}
	return p.intervalMin + rand.N(span)
}

// sleep waits for d or until the context is cancelled. Returns false if the
// poller should stop.
func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clk.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
