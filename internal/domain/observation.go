package domain

import (
	"strings"
	"time"
)

// Station CSV column codes. The measurement columns are the MeteoSwiss
// parameter identifiers documented with the VQHA80 feed.
const (
	colStation = "Station/Location"
	colDate    = "Date"

	colAirTemperature   = "tre200s0"
	colPrecipitation    = "rre150z0"
	colSunshine         = "sre000z0"
	colGlobalRadiation  = "gre000z0"
	colRelativeHumidity = "ure200s0"
	colDewPoint         = "tde200s0"
	colWindDirection    = "dkl010z0"
	colWindSpeed        = "fu3010z0"
	colGustPeak1s       = "fu3010z1"
	colPressureStation  = "prestas0"
	colPressureQNH      = "pp0qnhs0"
)

// observationTimeLayout is the station feed's timestamp format, UTC.
const observationTimeLayout = "200601021504"

// StationInfo identifies an observation station. Reference data; looked up,
// never mutated.
type StationInfo struct {
	Name         string  `json:"name,omitempty"`
	Abbreviation string  `json:"abbreviation"`
	Type         string  `json:"type,omitempty"`
	Altitude     float64 `json:"altitude,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
	Canton       string  `json:"canton,omitempty"`
}

// CurrentObservation is one station's measurements at one instant. Every
// quantity is a tagged Value; absent measurements stay absent.
type CurrentObservation struct {
	Station StationInfo `json:"station"`
	Time    time.Time   `json:"time"`

	AirTemperature       Value `json:"air_temperature"`
	Precipitation        Value `json:"precipitation"`
	Sunshine             Value `json:"sunshine"`
	GlobalRadiation      Value `json:"global_radiation"`
	RelativeHumidity     Value `json:"relative_humidity"`
	DewPoint             Value `json:"dew_point"`
	WindDirection        Value `json:"wind_direction"`
	WindSpeed            Value `json:"wind_speed"`
	GustPeak1s           Value `json:"gust_peak_1s"`
	PressureStationLevel Value `json:"pressure_station_level"`
	PressureSeaLevel     Value `json:"pressure_sea_level"`
	PressureSeaLevelQNH  Value `json:"pressure_sea_level_qnh"`
}

// ObservationFromRow normalizes one station feed row into a typed
// observation, tagging each measurement with its documented unit. Missing or
// malformed cells become absent values. A missing or malformed Date leaves
// Time zero.
func ObservationFromRow(row map[string]string) CurrentObservation {
	var ts time.Time
	if raw, ok := row[colDate]; ok {
		if t, err := time.ParseInLocation(observationTimeLayout, strings.TrimSpace(raw), time.UTC); err == nil {
			ts = t
		}
	}

	return CurrentObservation{
		Station:              StationInfo{Abbreviation: row[colStation]},
		Time:                 ts,
		AirTemperature:       NewValue(row[colAirTemperature], "°C"),
		Precipitation:        NewValue(row[colPrecipitation], "mm"),
		Sunshine:             NewValue(row[colSunshine], "min"),
		GlobalRadiation:      NewValue(row[colGlobalRadiation], "W/m²"),
		RelativeHumidity:     NewValue(row[colRelativeHumidity], "%"),
		DewPoint:             NewValue(row[colDewPoint], "°C"),
		WindDirection:        NewValue(row[colWindDirection], "°"),
		WindSpeed:            NewValue(row[colWindSpeed], "km/h"),
		GustPeak1s:           NewValue(row[colGustPeak1s], "km/h"),
		PressureStationLevel: NewValue(row[colPressureStation], "hPa"),
		PressureSeaLevel:     NewValue(row[colPressureStation], "hPa"),
		PressureSeaLevelQNH:  NewValue(row[colPressureQNH], "hPa"),
	}
}

// FindStationRow returns the first row whose station code matches code
// case-insensitively. The second return is false when no row matches; a miss
// is an expected outcome (the caller falls back to the forecast feed), not an
// error.
func FindStationRow(rows []map[string]string, code string) (map[string]string, bool) {
	if code == "" {
		return nil, false
	}
	for _, row := range rows {
		if strings.EqualFold(row[colStation], code) {
			return row, true
		}
	}
	return nil, false
}

// FallbackObservation builds a minimal observation from the forecast feed's
// current-weather fragment, used when the station lookup failed. Only the
// temperature is known; everything else stays absent. The timestamp is the
// assembly time.
func FallbackObservation(state *CurrentState) CurrentObservation {
	obs := CurrentObservation{
		Time:                 clock.Now().UTC(),
		Precipitation:        Value{Unit: "mm"},
		Sunshine:             Value{Unit: "min"},
		GlobalRadiation:      Value{Unit: "W/m²"},
		RelativeHumidity:     Value{Unit: "%"},
		DewPoint:             Value{Unit: "°C"},
		WindDirection:        Value{Unit: "°"},
		WindSpeed:            Value{Unit: "km/h"},
		GustPeak1s:           Value{Unit: "km/h"},
		PressureStationLevel: Value{Unit: "hPa"},
		PressureSeaLevel:     Value{Unit: "hPa"},
		PressureSeaLevelQNH:  Value{Unit: "hPa"},
	}
	obs.AirTemperature = Value{Unit: "°C"}
	if state != nil {
		obs.AirTemperature = state.Temperature
	}
	return obs
}
