package generator

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/wssim/core/events"
)

// HourlyProbability converts a daily rate into the probability of at least
// one occurrence within one hour of a Poisson process.
func HourlyProbability(perDay float64) float64 {
	return 1 - distuv.Poisson{Lambda: perDay / 24}.Prob(0)
}

// Hourly tests every kind once per hour in priority order. Because the first
// success wins, a lower-priority kind is suppressed whenever a
// higher-priority one fires in the same hour.
type Hourly struct {
	order   []events.Kind
	probs   map[events.Kind]float64
	factory *events.Factory
	rng     *rand.Rand
	hour    int
}

// NewHourly validates the rate of every kind in order and precomputes the
// per-hour probabilities.
func NewHourly(rates map[events.Kind]float64, order []events.Kind, factory *events.Factory, rng *rand.Rand) (*Hourly, error) {
	probs := make(map[events.Kind]float64, len(order))
	for _, k := range order {
		if !factory.Supports(k) {
			return nil, &events.ConfigError{Kind: k, Msg: "no event factory for kind"}
		}
		r, err := events.RateFor(rates, k)
		if err != nil {
			return nil, err
		}
		probs[k] = HourlyProbability(r)
	}
	if len(probs) == 0 {
		return nil, &events.ConfigError{Msg: "no hourly event kinds"}
	}
	return &Hourly{order: order, probs: probs, factory: factory, rng: rng}, nil
}

// Probability returns the per-hour probability of k.
func (g *Hourly) Probability(k events.Kind) float64 { return g.probs[k] }

// CurrentHour implements Generator.
func (g *Hourly) CurrentHour() int { return g.hour }

// Generate implements Generator.
func (g *Hourly) Generate() (events.Event, bool) {
	g.hour++
	for _, k := range g.order {
		if g.rng.Float64() < g.probs[k] {
			// Kinds were checked against the factory at construction.
			ev, _ := g.factory.New(k)
			return ev, true
		}
	}
	return events.Event{}, false
}
