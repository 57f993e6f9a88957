// Package domain models MeteoSwiss weather feed data.
//
// # Data Sources
//
// Current conditions come from the MeteoSwiss open-data measurement feed, a
// semicolon-delimited CSV with one row per observation station (VQHA80).
// Forecasts come from the MeteoSwiss app backend, a per-postal-code JSON
// payload. The adapters fetch both; this package only transforms in-memory
// payloads.
//
// # Feed Conventions
//
// Station CSV columns:
//
//	"Station/Location"  three-letter station code, e.g. "SMA" (Zürich Fluntern)
//	"Date"              observation time as yyyyMMddHHmm, UTC
//	tre200s0  air temperature °C        rre150z0  precipitation mm
//	sre000z0  sunshine duration min     gre000z0  global radiation W/m²
//	ure200s0  relative humidity %       tde200s0  dew point °C
//	dkl010z0  wind direction °          fu3010z0  wind speed km/h
//	fu3010z1  gust peak (1s) km/h       prestas0  pressure at station level hPa
//	pp0qnhs0  pressure at sea level, standard atmosphere (QNH) hPa
//
// Missing measurements appear as "-" and parse to an absent [Value]. Absence
// is meaningful: it says "not reported", never zero.
//
// Forecast JSON sections:
//
//	currentWeather  icon code + temperature for the postal code
//	forecast        array of day summaries (dayDate, iconDay, min/max temp, precipitation)
//	graph           parallel numeric arrays at mixed resolutions, each anchored
//	                to one of two epoch-millisecond start instants ("start" and
//	                "startLowResolution") with a fixed step per array family:
//	                10 minutes (precipitation10m...), 1 hour (temperature*1h,
//	                precipitation*1h, windSpeed1h, gustSpeed1h), 3 hours
//	                (weatherIcon3h, windDirection3h). Also sunrise/sunset
//	                epoch-millisecond arrays.
//
// Every section is optional. A missing section degrades to an absent result
// for that section; only a wholesale-unparseable payload is an error, and that
// is the adapter's concern.
//
// # Icon Codes
//
// The provider's integer icon codes map onto a small fixed set of condition
// categories (sunny, rainy, snowy, fog, ...) via [ConditionForIcon]. Codes not
// in the table yield an empty Condition rather than an error; the provider
// adds codes without notice.
//
// # Merging
//
// [MergeGraph] interleaves the four graph series into one strictly ascending
// sequence of sparse forecast points. No interpolation: a point carries a
// field only when that field's series has a sample at exactly that instant.
package domain
