package domain

import "time"

// The graph section carries four independent series, each a set of parallel
// arrays anchored to one start instant with one fixed step:
//
//	10-minute:  precipitation value/min/max            anchored at start
//	hourly:     temperature min/mean/max               anchored at start
//	hourly low: precipitation value/min/max,
//	            wind speed, gust speed                 anchored at startLowResolution
//	3-hourly:   weather icon, wind direction           anchored at start
//
// MergeGraph interleaves them into a single timeline.

// series tracks one input stream through the merge: anchor instant, step,
// effective length, and cursor. The effective length is the minimum over the
// stream's constituent arrays so the merge never indexes past the shortest.
type series struct {
	start time.Time
	step  time.Duration
	n     int
	i     int
}

func newSeries(start time.Time, step time.Duration, lengths ...int) series {
	n := lengths[0]
	for _, l := range lengths[1:] {
		if l < n {
			n = l
		}
	}
	return series{start: start, step: step, n: n}
}

// at returns the timestamp of element i: start + i*step.
func (s *series) at(i int) time.Time {
	return s.start.Add(time.Duration(i) * s.step)
}

// fires reports whether the series has an unconsumed sample at exactly ts.
func (s *series) fires(ts time.Time) bool {
	return s.i < s.n && s.at(s.i).Equal(ts)
}

// last returns the timestamp of the final element; ok is false when the
// series is empty.
func (s *series) last() (time.Time, bool) {
	if s.n == 0 {
		return time.Time{}, false
	}
	return s.at(s.n - 1), true
}

// MergeGraph combines the graph's four series into one chronologically
// ascending sequence of sparse forecast points.
//
// The timeline is the union of the series' own timestamps: a cursor per
// series walks forward, every series with a sample at the current instant
// contributes its fields to the same point, and the next instant is the
// minimum of the unexhausted cursors' timestamps. Nothing is interpolated and
// nothing is fabricated; a field missing at an instant stays absent. Series
// whose effective length is zero never contribute. Points strictly before
// cutoff are dropped (a point exactly at the cutoff is kept) so a merge does
// not republish stale history.
//
// Returns nil when the graph or either start instant is missing: the caller
// treats that as "no fine-grained forecast this cycle", not a failure.
func MergeGraph(graph *GraphFragment, cutoff time.Time) []ForecastPoint {
	if graph == nil || graph.Start == nil || graph.StartLowResolution == nil {
		return nil
	}
	start := fromEpochMillis(*graph.Start)
	startLow := fromEpochMillis(*graph.StartLowResolution)

	precip10m := newSeries(start, 10*time.Minute,
		len(graph.Precipitation10m), len(graph.PrecipitationMin10m), len(graph.PrecipitationMax10m))
	temp1h := newSeries(start, time.Hour,
		len(graph.TemperatureMin1h), len(graph.TemperatureMean1h), len(graph.TemperatureMax1h))
	precip1h := newSeries(startLow, time.Hour,
		len(graph.Precipitation1h), len(graph.PrecipitationMin1h), len(graph.PrecipitationMax1h),
		len(graph.WindSpeed1h), len(graph.GustSpeed1h))
	icon3h := newSeries(start, 3*time.Hour,
		len(graph.WeatherIcon3h), len(graph.WindDirection3h))

	last, ok := lastTimestamp(&precip10m, &temp1h, &precip1h, &icon3h)
	if !ok {
		// Every series is empty. A successful merge of nothing.
		return []ForecastPoint{}
	}

	// First instant is the earliest sample across the live series. Starting
	// from the anchors directly could emit an empty point when every series
	// at that anchor is empty.
	ts := last.Add(10 * time.Minute)
	ts = nextFiring(ts, &icon3h)
	ts = nextFiring(ts, &temp1h)
	ts = nextFiring(ts, &precip1h)
	ts = nextFiring(ts, &precip10m)

	points := make([]ForecastPoint, 0, precip10m.n+temp1h.n+precip1h.n+icon3h.n)
	for !ts.After(last) {
		point := ForecastPoint{Timestamp: ts}
		// Sentinel past the final instant; overwritten by any live cursor and
		// terminates the loop once all series are exhausted.
		next := last.Add(10 * time.Minute)

		if icon3h.fires(ts) {
			icon := graph.WeatherIcon3h[icon3h.i]
			point.Icon = &icon
			point.WindDirection = SomeValue(graph.WindDirection3h[icon3h.i], "°")
			icon3h.i++
		}
		next = nextFiring(next, &icon3h)

		if temp1h.fires(ts) {
			point.TemperatureMin = SomeValue(graph.TemperatureMin1h[temp1h.i], "°C")
			point.TemperatureMean = SomeValue(graph.TemperatureMean1h[temp1h.i], "°C")
			point.TemperatureMax = SomeValue(graph.TemperatureMax1h[temp1h.i], "°C")
			temp1h.i++
		}
		next = nextFiring(next, &temp1h)

		if precip1h.fires(ts) {
			point.PrecipitationMin = SomeValue(graph.PrecipitationMin1h[precip1h.i], "mm")
			point.Precipitation = SomeValue(graph.Precipitation1h[precip1h.i], "mm")
			point.PrecipitationMax = SomeValue(graph.PrecipitationMax1h[precip1h.i], "mm")
			point.WindSpeed = SomeValue(graph.WindSpeed1h[precip1h.i], "km/h")
			point.WindGustSpeed = SomeValue(graph.GustSpeed1h[precip1h.i], "km/h")
			precip1h.i++
		}
		next = nextFiring(next, &precip1h)

		// Last so the finer resolution wins when both precipitation series
		// fire at the same instant.
		if precip10m.fires(ts) {
			point.PrecipitationMin = SomeValue(graph.PrecipitationMin10m[precip10m.i], "mm")
			point.Precipitation = SomeValue(graph.Precipitation10m[precip10m.i], "mm")
			point.PrecipitationMax = SomeValue(graph.PrecipitationMax10m[precip10m.i], "mm")
			precip10m.i++
		}
		next = nextFiring(next, &precip10m)

		if !ts.Before(cutoff) {
			point.Condition = conditionForIconPtr(point.Icon)
			points = append(points, point)
		}
		ts = next
	}
	return points
}

// lastTimestamp returns the latest final instant across the given series,
// ignoring empty ones. ok is false when all series are empty.
func lastTimestamp(all ...*series) (time.Time, bool) {
	var last time.Time
	found := false
	for _, s := range all {
		t, ok := s.last()
		if !ok {
			continue
		}
		if !found || t.After(last) {
			last = t
		}
		found = true
	}
	return last, found
}

// nextFiring lowers next to the series' cursor timestamp if the series still
// has samples and fires earlier. Exhausted series never advance the timeline.
func nextFiring(next time.Time, s *series) time.Time {
	if s.i >= s.n {
		return next
	}
	if t := s.at(s.i); t.Before(next) {
		return t
	}
	return next
}

func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
