package events

import "fmt"

// DefaultRates maps each kind to its expected number of occurrences per
// simulated day.
var DefaultRates = map[Kind]float64{
	KindAirAlarm:    0.5,
	KindPowerOutage: 0.35,
}

// ConfigError reports a missing or invalid occurrence rate.
type ConfigError struct {
	Kind Kind
	Rate float64
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("event %s: %s (rate=%g)", e.Kind, e.Msg, e.Rate)
}

// Rates returns a copy of DefaultRates with the given overrides applied.
// Override keys are kind configuration keys such as "air_alarm".
func Rates(overrides map[string]float64) (map[Kind]float64, error) {
	out := make(map[Kind]float64, len(DefaultRates))
	for k, v := range DefaultRates {
		out[k] = v
	}
	for name, v := range overrides {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// RateFor returns the rate of k or a ConfigError when it is missing, NaN or
// not positive.
func RateFor(rates map[Kind]float64, k Kind) (float64, error) {
	r, ok := rates[k]
	if !ok {
		return 0, &ConfigError{Kind: k, Msg: "missing occurrence rate"}
	}
	if !(r > 0) {
		return r, &ConfigError{Kind: k, Rate: r, Msg: "occurrence rate must be > 0"}
	}
	return r, nil
}
