package mqtt

import (
	"github.com/kilianp07/wssim/core/factory"
	"github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/snapshot"
)

func init() {
	_ = snapshot.Register("mqtt", func(conf map[string]any) (snapshot.Store, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSnapshotPublisher(c)
	})
	_ = metrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (metrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSnapshotPublisher(c)
	})
}
