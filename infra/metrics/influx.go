package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/wssim/core/events"
	coremetrics "github.com/kilianp07/wssim/core/metrics"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/infra/logger"
)

// InfluxSink writes snapshots and run records to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when
// the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSnapshot writes one station_snapshot point.
func (s *InfluxSink) RecordSnapshot(snap model.Snapshot) error {
	p := write.NewPointWithMeasurement("station_snapshot").
		AddTag("station", snap.Workstation).
		AddTag("power_state", snap.PowerState).
		AddTag("health_state", snap.HealthState)
	if snap.RunID != "" {
		p.AddTag("run_id", snap.RunID)
	}
	p = p.AddField("battery_percent", snap.BatteryPercent).
		AddField("health_percent", round3(snap.HealthPercent)).
		AddField("effective_wh", round3(snap.EffectiveWh)).
		AddField("throughput_wh", round3(snap.ThroughputWh)).
		AddField("energy_delta_wh", round3(snap.EnergyDeltaWh)).
		AddField("temp_factor", round3(snap.TempFactor)).
		AddField("ambient_temp", round3(snap.AmbientTemp)).
		AddField("amp_output_w", round3(snap.AmpOutputW)).
		AddField("power_on", snap.PowerOn).
		AddField("air_alarm", snap.AirAlarm).
		SetTime(snap.SimTime)
	return s.write(p)
}

// RecordEvent writes one station_event point.
func (s *InfluxSink) RecordEvent(ev events.Generated) error {
	p := write.NewPointWithMeasurement("station_event").
		AddTag("station", ev.Station).
		AddTag("kind", ev.Event.Kind.String()).
		AddField("hour", ev.Hour).
		AddField("duration_s", ev.Event.Duration.Seconds()).
		AddField("sub_events", len(ev.Event.SubEvents)).
		SetTime(ev.SimTime)
	return s.write(p)
}

// RecordTransition writes one station_transition point.
func (s *InfluxSink) RecordTransition(tr events.Transition) error {
	p := write.NewPointWithMeasurement("station_transition").
		AddTag("station", tr.Station).
		AddTag("type", string(tr.Type)).
		AddField("charge", tr.Charge).
		AddField("reason", tr.Reason).
		SetTime(tr.SimTime)
	return s.write(p)
}

// RecordSummary writes one run_summary point.
func (s *InfluxSink) RecordSummary(sum coremetrics.RunSummary) error {
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("station", sum.Station).
		AddTag("run_id", sum.RunID).
		AddField("ticks", sum.Ticks).
		AddField("cutoffs", sum.Cutoffs).
		AddField("mean_charge", round3(sum.MeanCharge)).
		AddField("min_charge", round3(sum.MinCharge)).
		AddField("std_charge", round3(sum.StdCharge)).
		AddField("final_health", round3(sum.FinalHealth)).
		SetTime(sum.Finished)
	return s.write(p)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
