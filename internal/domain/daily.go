package domain

import "time"

// dayDateLayout is the daily forecast's date format; days have no time zone
// in the feed and are pinned to UTC midnight.
const dayDateLayout = "2006-01-02"

// DailyForecast normalizes the provider's daily array into forecast points.
// Days are emitted in provider order, which is already chronological. A day
// missing optional fields (icon, temperatures, precipitation) still yields a
// point with those fields absent; a malformed dayDate leaves the timestamp
// zero rather than dropping the day.
func DailyForecast(days []DayFragment) []ForecastPoint {
	points := make([]ForecastPoint, 0, len(days))
	for _, day := range days {
		var ts time.Time
		if day.DayDate != "" {
			if t, err := time.ParseInLocation(dayDateLayout, day.DayDate, time.UTC); err == nil {
				ts = t
			}
		}
		points = append(points, ForecastPoint{
			Timestamp:      ts,
			Icon:           day.IconDay,
			Condition:      conditionForIconPtr(day.IconDay),
			TemperatureMax: FloatValue(day.TemperatureMax, "°C"),
			TemperatureMin: FloatValue(day.TemperatureMin, "°C"),
			Precipitation:  FloatValue(day.Precipitation, "mm"),
		})
	}
	return points
}
