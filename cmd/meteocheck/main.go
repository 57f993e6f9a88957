// Command meteocheck performs a single fetch-and-assemble cycle against the
// live MeteoSwiss feeds and prints the resulting snapshot as JSON. It is a
// debugging aid for inspecting feed contents and merge output without running
// the service.
//
// Usage:
//
//	go run ./cmd/meteocheck -plz 8001 -station SMA
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wolkenbruch/swissmeteo-etl/internal/adapter/meteoswiss"
	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
)

const (
	stationFeedURL  = "https://data.geo.admin.ch/ch.meteoschweiz.messwerte-aktuell/VQHA80.csv"
	forecastBaseURL = "https://app-prod-ws.meteoswiss-app.ch/v1/plzDetail"
)

func main() {
	plz := flag.String("plz", "", "four-digit Swiss postal code (required)")
	station := flag.String("station", "", "observation station code (optional)")
	lang := flag.String("lang", "en", "forecast language (en, de, fr, it)")
	maxAge := flag.Duration("max-age", time.Hour, "drop merged points older than this")
	timeout := flag.Duration("timeout", 10*time.Second, "per-feed fetch timeout")
	flag.Parse()

	if *plz == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*plz, *station, *lang, *maxAge, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "meteocheck: %v\n", err)
		os.Exit(1)
	}
}

func run(plz, station, lang string, maxAge, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	forecasts := meteoswiss.NewForecastClient(forecastBaseURL, lang, timeout, metrics, logger)
	payload, err := forecasts.Forecast(ctx, plz)
	if err != nil {
		return fmt.Errorf("forecast feed: %w", err)
	}

	forecast := domain.AssembleForecast(payload, maxAge)

	var obs domain.CurrentObservation
	if station != "" {
		stations := meteoswiss.NewStationClient(stationFeedURL, timeout, metrics, logger)
		current, ok, err := stations.CurrentForStation(ctx, station)
		if err != nil {
			return fmt.Errorf("station feed: %w", err)
		}
		if !ok {
			return fmt.Errorf("station %q not present in feed", station)
		}
		obs = current
	} else {
		obs = domain.FallbackObservation(forecast.Current)
	}

	snap := domain.Snapshot{
		PostCode:    plz,
		Observation: obs,
		Forecast:    forecast,
		AssembledAt: clockwork.NewRealClock().Now().UTC(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
