package sim

import (
	"math"
	"time"
)

// TemperatureProvider returns the ambient temperature at a simulated instant.
type TemperatureProvider interface {
	TemperatureAt(t time.Time) float64
}

// StaticTemperature is a constant ambient temperature in °C.
type StaticTemperature float64

// TemperatureAt implements TemperatureProvider.
func (s StaticTemperature) TemperatureAt(time.Time) float64 { return float64(s) }

// Diurnal oscillates around MeanC with a 24 h sine peaking at PeakHour.
type Diurnal struct {
	MeanC      float64
	AmplitudeC float64
	PeakHour   int
}

// TemperatureAt implements TemperatureProvider.
func (d Diurnal) TemperatureAt(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60
	phase := 2 * math.Pi * (h - float64(d.PeakHour)) / 24
	return d.MeanC + d.AmplitudeC*math.Cos(phase)
}

// NewTemperature returns a Diurnal provider peaking at 15:00 when amplitude
// is non-zero and a StaticTemperature otherwise.
func NewTemperature(meanC, amplitudeC float64) TemperatureProvider {
	if amplitudeC == 0 {
		return StaticTemperature(meanC)
	}
	return Diurnal{MeanC: meanC, AmplitudeC: amplitudeC, PeakHour: 15}
}
