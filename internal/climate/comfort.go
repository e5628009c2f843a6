package climate

import "math"

// ComfortWeights parameterize the comfort index. The defaults are fixed
// empirical constants, not derived; they are exposed as a struct so a host
// application can tune them, but changing them changes the score scale.
type ComfortWeights struct {
	ReferenceTempC float64
	TempWeight     float64
	HumidityWeight float64
	WindWeight     float64
}

// DefaultComfortWeights rewards temperatures near 22 °C and penalizes
// humidity and wind linearly.
var DefaultComfortWeights = ComfortWeights{
	ReferenceTempC: 22,
	TempWeight:     2.0,
	HumidityWeight: 0.3,
	WindWeight:     1.5,
}

// Index derives the bounded comfort score from the day-of-year averages:
// 100 minus a weighted penalty for temperature deviation, humidity, and
// wind, clamped to [0,100]. No smoothing or non-linearity beyond the
// absolute value.
func (w ComfortWeights) Index(a Averages) float64 {
	penalty := math.Abs(a.Temperature-w.ReferenceTempC)*w.TempWeight +
		a.Humidity*w.HumidityWeight +
		a.WindSpeed*w.WindWeight
	return clamp(100-penalty, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
