package climate

import "errors"

// ErrNoData is returned when a query has no records to compute over: the
// upstream series was empty or the day-of-year selection matched nothing.
// It is a distinct outcome from a successful zero-probability result.
var ErrNoData = errors.New("no climate records for the requested day")

// Exceedance probability: the fraction of records whose value strictly
// crosses a threshold, over the records where the value is present,
// expressed as a percentage. A field with no present values reports 0.
func exceedance(subset DaySubset, field func(DailyRecord) *float64, crosses func(float64) bool) float64 {
	var present, hits int
	for _, r := range subset {
		v := field(r)
		if v == nil {
			continue
		}
		present++
		if crosses(*v) {
			hits++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(hits) / float64(present) * 100
}

func temperature(r DailyRecord) *float64   { return r.Temperature }
func precipitation(r DailyRecord) *float64 { return r.Precipitation }
func windspeed(r DailyRecord) *float64     { return r.WindSpeed }
func humidity(r DailyRecord) *float64      { return r.Humidity }

// HotProbability is the percentage of years with temperature strictly
// above the hot threshold.
func HotProbability(subset DaySubset, hotC float64) float64 {
	return exceedance(subset, temperature, func(v float64) bool { return v > hotC })
}

// ColdProbability is the percentage of years with temperature strictly
// below the cold threshold.
func ColdProbability(subset DaySubset, coldC float64) float64 {
	return exceedance(subset, temperature, func(v float64) bool { return v < coldC })
}

// WindyProbability is the percentage of years with windspeed strictly
// above the wind threshold.
func WindyProbability(subset DaySubset, windMS float64) float64 {
	return exceedance(subset, windspeed, func(v float64) bool { return v > windMS })
}

// WetProbability is the percentage of years with precipitation strictly
// above the rain threshold.
func WetProbability(subset DaySubset, rainMM float64) float64 {
	return exceedance(subset, precipitation, func(v float64) bool { return v > rainMM })
}

// DiscomfortProbability is the percentage of years satisfying the joint
// condition (temperature > hot OR temperature < cold) AND humidity >
// humidity threshold. It is evaluated per record; it is not the sum of the
// individual probabilities. Records missing temperature or humidity are
// skipped.
func DiscomfortProbability(subset DaySubset, t Thresholds) float64 {
	var present, hits int
	for _, r := range subset {
		if r.Temperature == nil || r.Humidity == nil {
			continue
		}
		present++
		extreme := *r.Temperature > t.HotC || *r.Temperature < t.ColdC
		if extreme && *r.Humidity > t.HumidityPct {
			hits++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(hits) / float64(present) * 100
}

func mean(subset DaySubset, field func(DailyRecord) *float64) float64 {
	var sum float64
	var n int
	for _, r := range subset {
		if v := field(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanValues computes the four arithmetic means over the subset, each over
// present values only.
func MeanValues(subset DaySubset) Averages {
	return Averages{
		Temperature: mean(subset, temperature),
		Rainfall:    mean(subset, precipitation),
		WindSpeed:   mean(subset, windspeed),
		Humidity:    mean(subset, humidity),
	}
}

// Analyze computes the full ConditionResult for a day subset. It is a pure
// function: same subset, thresholds, and weights always yield the same
// result. An empty subset returns ErrNoData rather than a result with
// undefined fields.
func Analyze(subset DaySubset, t Thresholds, w ComfortWeights) (ConditionResult, error) {
	if len(subset) == 0 {
		return ConditionResult{}, ErrNoData
	}

	avgs := MeanValues(subset)

	return ConditionResult{
		PctHot:           HotProbability(subset, t.HotC),
		PctCold:          ColdProbability(subset, t.ColdC),
		PctWindy:         WindyProbability(subset, t.WindMS),
		PctWet:           WetProbability(subset, t.RainMM),
		PctUncomfortable: DiscomfortProbability(subset, t),
		Averages:         avgs,
		ComfortIndex:     w.Index(avgs),
		Years:            len(subset),
	}, nil
}
