package domain

import "time"

// CurrentState is the forecast feed's own current-conditions summary after
// normalization.
type CurrentState struct {
	Temperature Value     `json:"temperature"`
	Icon        *int      `json:"icon,omitempty"`
	Condition   Condition `json:"condition,omitempty"`
}

// ForecastPoint is one instant on the forecast timeline. It is sparse: a
// field is populated only when some source series reported it at exactly this
// timestamp. An absent Value means "not reported here", never zero.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`

	Icon      *int      `json:"icon,omitempty"`
	Condition Condition `json:"condition,omitempty"`

	WindSpeed     Value `json:"wind_speed"`
	WindDirection Value `json:"wind_direction"`
	WindGustSpeed Value `json:"wind_gust_speed"`

	TemperatureMin  Value `json:"temperature_min"`
	TemperatureMean Value `json:"temperature_mean"`
	TemperatureMax  Value `json:"temperature_max"`

	PrecipitationMin Value `json:"precipitation_min"`
	Precipitation    Value `json:"precipitation"`
	PrecipitationMax Value `json:"precipitation_max"`
}

// WeatherForecast is the assembled forecast for one postal code: the feed's
// current state, the daily summaries, the merged fine-grained timeline, and
// the sun events. All sequences are chronological; Hourly additionally has
// strictly increasing, deduplicated timestamps.
type WeatherForecast struct {
	Current *CurrentState   `json:"current,omitempty"`
	Daily   []ForecastPoint `json:"daily"`
	Hourly  []ForecastPoint `json:"hourly"`
	Sunrise []time.Time     `json:"sunrise"`
	Sunset  []time.Time     `json:"sunset"`
}

// Snapshot is one poll cycle's published result: the preferred current
// observation plus the assembled forecast. Snapshots are immutable once
// published; the next successful cycle replaces the whole value.
type Snapshot struct {
	PostCode    string             `json:"post_code"`
	Observation CurrentObservation `json:"observation"`
	Forecast    WeatherForecast    `json:"forecast"`
	AssembledAt time.Time          `json:"assembled_at"`
}

// CurrentStateFromPayload normalizes the currentWeather section. Returns nil
// when the section is absent.
func CurrentStateFromPayload(p *ForecastPayload) *CurrentState {
	if p == nil || p.CurrentWeather == nil {
		return nil
	}
	cw := p.CurrentWeather
	return &CurrentState{
		Temperature: FloatValue(cw.Temperature, "°C"),
		Icon:        cw.Icon,
		Condition:   conditionForIconPtr(cw.Icon),
	}
}
