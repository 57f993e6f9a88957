package domain

// ForecastPayload is the raw per-postal-code JSON document from the forecast
// feed. Every section is optional; pointer and slice zero values stand in for
// "section not present".
type ForecastPayload struct {
	CurrentWeather *CurrentWeatherFragment `json:"currentWeather"`
	Forecast       []DayFragment           `json:"forecast"`
	Graph          *GraphFragment          `json:"graph"`
}

// CurrentWeatherFragment is the feed's own current-conditions summary for the
// postal code.
type CurrentWeatherFragment struct {
	Time        *int64   `json:"time"` // epoch milliseconds
	Icon        *int     `json:"icon"`
	Temperature *float64 `json:"temperature"`
}

// DayFragment is one element of the daily forecast array. The provider emits
// days in chronological order.
type DayFragment struct {
	DayDate        string   `json:"dayDate"` // "2006-01-02"
	IconDay        *int     `json:"iconDay"`
	TemperatureMax *float64 `json:"temperatureMax"`
	TemperatureMin *float64 `json:"temperatureMin"`
	Precipitation  *float64 `json:"precipitation"`
}

// GraphFragment carries the fine-grained forecast: parallel numeric arrays at
// three native resolutions, anchored to two start instants. The temperature
// and 3-hourly arrays start at Start; the low-resolution precipitation and
// wind arrays start at StartLowResolution. Element i of an array is the value
// at start + i*step for that array's resolution.
type GraphFragment struct {
	Start              *int64 `json:"start"`              // epoch milliseconds
	StartLowResolution *int64 `json:"startLowResolution"` // epoch milliseconds

	Precipitation10m    []float64 `json:"precipitation10m"`
	PrecipitationMin10m []float64 `json:"precipitationMin10m"`
	PrecipitationMax10m []float64 `json:"precipitationMax10m"`

	TemperatureMin1h  []float64 `json:"temperatureMin1h"`
	TemperatureMean1h []float64 `json:"temperatureMean1h"`
	TemperatureMax1h  []float64 `json:"temperatureMax1h"`

	Precipitation1h    []float64 `json:"precipitation1h"`
	PrecipitationMin1h []float64 `json:"precipitationMin1h"`
	PrecipitationMax1h []float64 `json:"precipitationMax1h"`
	WindSpeed1h        []float64 `json:"windSpeed1h"`
	GustSpeed1h        []float64 `json:"gustSpeed1h"`

	WeatherIcon3h   []int     `json:"weatherIcon3h"`
	WindDirection3h []float64 `json:"windDirection3h"`

	Sunrise []int64 `json:"sunrise"` // epoch milliseconds
	Sunset  []int64 `json:"sunset"`  // epoch milliseconds
}
