package generator

import (
	"math/rand"
	"time"

	"github.com/kilianp07/wssim/core/events"
)

type weightedKind struct {
	kind   events.Kind
	weight float64
}

// Weighted draws exactly one event per call, using rates as relative weights.
type Weighted struct {
	kinds   []weightedKind
	total   float64
	factory *events.Factory
	rng     *rand.Rand
	// waits come from their own stream so pacing never shifts the draws
	waitRng *rand.Rand
	hour    int

	MinInterval time.Duration
	MaxInterval time.Duration
}

// NewWeighted validates the weight of every kind in order.
func NewWeighted(rates map[events.Kind]float64, order []events.Kind, factory *events.Factory, rng *rand.Rand) (*Weighted, error) {
	g := &Weighted{
		factory:     factory,
		rng:         rng,
		waitRng:     rand.New(rand.NewSource(rng.Int63())),
		MinInterval: 20 * time.Second,
		MaxInterval: 40 * time.Second,
	}
	for _, k := range order {
		if !factory.Supports(k) {
			return nil, &events.ConfigError{Kind: k, Msg: "no event factory for kind"}
		}
		r, err := events.RateFor(rates, k)
		if err != nil {
			return nil, err
		}
		g.kinds = append(g.kinds, weightedKind{kind: k, weight: r})
		g.total += r
	}
	if len(g.kinds) == 0 {
		return nil, &events.ConfigError{Msg: "no weighted event kinds"}
	}
	return g, nil
}

// CurrentHour implements Generator.
func (g *Weighted) CurrentHour() int { return g.hour }

// Generate implements Generator. It always returns an event.
func (g *Weighted) Generate() (events.Event, bool) {
	g.hour++
	roll := g.rng.Float64() * g.total
	cumulative := 0.0
	pick := g.kinds[len(g.kinds)-1].kind
	for _, wk := range g.kinds {
		cumulative += wk.weight
		if roll < cumulative {
			pick = wk.kind
			break
		}
	}
	ev, _ := g.factory.New(pick)
	return ev, true
}

// RollNextInterval returns a uniform wait in [MinInterval, MaxInterval]
// before the next draw.
func (g *Weighted) RollNextInterval() time.Duration {
	if g.MaxInterval <= g.MinInterval {
		return g.MinInterval
	}
	span := int64(g.MaxInterval - g.MinInterval)
	return g.MinInterval + time.Duration(g.waitRng.Int63n(span+1))
}
