package climate

import "time"

// SelectDayOfYear filters a series down to the records whose month and day
// exactly match the target. Input order (chronological by year) is
// preserved. There is no interpolation and no nearest-day fallback: asking
// for Feb 29 against a source without leap-day records returns an empty
// subset.
func SelectDayOfYear(series TimeSeries, month time.Month, day int) DaySubset {
	var subset DaySubset
	for _, r := range series {
		if r.Date.Month() == month && r.Date.Day() == day {
			subset = append(subset, r)
		}
	}
	return subset
}
