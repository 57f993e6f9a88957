package poller_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolkenbruch/swissmeteo-etl/internal/config"
	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
	"github.com/wolkenbruch/swissmeteo-etl/internal/poller"
)

var testNow = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

// --- mocks ---

type mockStations struct {
	obs   domain.CurrentObservation
	found bool
	err   error
	calls atomic.Int64
}

func (m *mockStations) CurrentForStation(_ context.Context, _ string) (domain.CurrentObservation, bool, error) {
	m.calls.Add(1)
	return m.obs, m.found, m.err
}

type mockForecasts struct {
	payload *domain.ForecastPayload
	err     error
	calls   atomic.Int64
}

func (m *mockForecasts) Forecast(_ context.Context, _ string) (*domain.ForecastPayload, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

type mockSink struct {
	published []*domain.Snapshot
	err       error
}

func (m *mockSink) Publish(_ context.Context, snap *domain.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, snap)
	return nil
}

// --- helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		PostCode:        "8001",
		StationCode:     "SMA",
		PollIntervalMin: 10 * time.Millisecond,
		PollIntervalMax: 20 * time.Millisecond,
		ForecastMaxAge:  time.Hour,
	}
}

func stationObservation() domain.CurrentObservation {
	return domain.CurrentObservation{
		Station:        domain.StationInfo{Abbreviation: "SMA"},
		Time:           testNow.Add(-10 * time.Minute),
		AirTemperature: domain.SomeValue(17.4, "°C"),
	}
}

func testPayload() *domain.ForecastPayload {
	startMillis := testNow.UnixMilli()
	icon := 2
	temp := 21.5
	return &domain.ForecastPayload{
		CurrentWeather: &domain.CurrentWeatherFragment{Icon: &icon, Temperature: &temp},
		Forecast: []domain.DayFragment{
			{DayDate: "2024-05-04"},
			{DayDate: "2024-05-05"},
		},
		Graph: &domain.GraphFragment{
			Start:               &startMillis,
			StartLowResolution:  &startMillis,
			Precipitation10m:    []float64{0, 0.1},
			PrecipitationMin10m: []float64{0, 0},
			PrecipitationMax10m: []float64{0, 0.2},
		},
	}
}

func newTestPoller(t *testing.T, stations *mockStations, forecasts *mockForecasts, sink poller.SnapshotSink) *poller.Poller {
	t.Helper()

	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })

	p := poller.New(testConfig(), stations, forecasts, sink, testLogger(), observability.NewMetricsForTesting())
	p.SetClock(clockwork.NewFakeClockAt(testNow))
	return p
}

func TestPoll_StationObservationPreferred(t *testing.T) {
	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: testPayload()}
	p := newTestPoller(t, stations, forecasts, nil)

	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	snap := p.Latest()
	require.NotNil(t, snap)
	assert.Equal(t, "8001", snap.PostCode)
	assert.Equal(t, testNow, snap.AssembledAt)

	// The current temperature comes from the station row, not the forecast
	// feed's 21.5.
	if diff := cmp.Diff(stationObservation(), snap.Observation); diff != "" {
		t.Errorf("observation mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, snap.Forecast.Current)
	assert.Len(t, snap.Forecast.Daily, 2)
	assert.Len(t, snap.Forecast.Hourly, 2)
}

func TestPoll_StationMissFallsBackToForecastCurrent(t *testing.T) {
	stations := &mockStations{found: false}
	forecasts := &mockForecasts{payload: testPayload()}
	p := newTestPoller(t, stations, forecasts, nil)

	require.NoError(t, p.Poll(context.Background()))

	snap := p.Latest()
	require.NotNil(t, snap)

	obs := snap.Observation
	require.True(t, obs.AirTemperature.Present())
	assert.Equal(t, 21.5, *obs.AirTemperature.Val)
	assert.Equal(t, testNow, obs.Time, "fallback observation carries the assembly time")
	assert.Empty(t, obs.Station.Abbreviation)
	assert.False(t, obs.WindSpeed.Present())
}

func TestPoll_StationFeedErrorStillPublishes(t *testing.T) {
	stations := &mockStations{err: errors.New("feed down")}
	forecasts := &mockForecasts{payload: testPayload()}
	p := newTestPoller(t, stations, forecasts, nil)

	require.NoError(t, p.Poll(context.Background()))

	snap := p.Latest()
	require.NotNil(t, snap)
	assert.Equal(t, 21.5, *snap.Observation.AirTemperature.Val)
}

func TestPoll_ForecastFailureKeepsPreviousSnapshot(t *testing.T) {
	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: testPayload()}
	p := newTestPoller(t, stations, forecasts, nil)

	require.Error(t, p.CheckReadiness(context.Background()))

	require.NoError(t, p.Poll(context.Background()))
	first := p.Latest()
	require.NotNil(t, first)

	forecasts.err = errors.New("upstream 503")
	err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast feed")

	assert.Same(t, first, p.Latest(), "failed poll must not replace the snapshot")
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPoll_UnmergeableGraphOmitsHourly(t *testing.T) {
	payload := testPayload()
	payload.Graph.Start = nil

	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: payload}
	p := newTestPoller(t, stations, forecasts, nil)

	require.NoError(t, p.Poll(context.Background()))

	snap := p.Latest()
	require.NotNil(t, snap)
	assert.Nil(t, snap.Forecast.Hourly)
	assert.NotEmpty(t, snap.Forecast.Daily)
}

func TestPoll_SinkReceivesSnapshot(t *testing.T) {
	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: testPayload()}
	sink := &mockSink{}
	p := newTestPoller(t, stations, forecasts, sink)

	require.NoError(t, p.Poll(context.Background()))

	require.Len(t, sink.published, 1)
	assert.Same(t, p.Latest(), sink.published[0])
}

func TestPoll_SinkFailureDoesNotFailCycle(t *testing.T) {
	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: testPayload()}
	sink := &mockSink{err: errors.New("broker unreachable")}
	p := newTestPoller(t, stations, forecasts, sink)

	require.NoError(t, p.Poll(context.Background()))
	assert.NotNil(t, p.Latest())
}

func TestRun_StopsOnCancel(t *testing.T) {
	stations := &mockStations{obs: stationObservation(), found: true}
	forecasts := &mockForecasts{payload: testPayload()}

	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })

	// Real clock with millisecond intervals so the loop actually spins.
	p := poller.New(testConfig(), stations, forecasts, nil, testLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, forecasts.calls.Load(), int64(2), "expected multiple poll cycles")
	assert.NotNil(t, p.Latest())
}
