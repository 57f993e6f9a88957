package domain

import "time"

// AssembleForecast builds the full forecast from a raw payload: normalized
// current state, daily summaries, the merged fine-grained timeline, and
// sunrise/sunset instants. maxAge bounds how far into the past merged points
// may reach, measured from the package clock at assembly time.
//
// Missing payload sections degrade to absent or empty results; only the
// adapter-level failure to parse the payload at all aborts a cycle.
func AssembleForecast(payload *ForecastPayload, maxAge time.Duration) WeatherForecast {
	if payload == nil {
		return WeatherForecast{}
	}

	cutoff := clock.Now().UTC().Add(-maxAge)

	forecast := WeatherForecast{
		Current: CurrentStateFromPayload(payload),
		Daily:   DailyForecast(payload.Forecast),
		Hourly:  MergeGraph(payload.Graph, cutoff),
	}

	if payload.Graph != nil {
		forecast.Sunrise = instantsFromEpochMillis(payload.Graph.Sunrise)
		forecast.Sunset = instantsFromEpochMillis(payload.Graph.Sunset)
	}
	return forecast
}

func instantsFromEpochMillis(millis []int64) []time.Time {
	if millis == nil {
		return nil
	}
	out := make([]time.Time, len(millis))
	for i, ms := range millis {
		out[i] = fromEpochMillis(ms)
	}
	return out
}
