package mqtt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/wssim/core/events"
	"github.com/kilianp07/wssim/core/model"
	"github.com/kilianp07/wssim/infra/logger"
)

// Publisher is the subset of PahoClient used by SnapshotPublisher.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Disconnect()
}

// SnapshotPublisher streams snapshots, transitions and generated events to
// topics below the configured prefix:
//
//	<prefix>/<station>/snapshot
//	<prefix>/<station>/transition
//	<prefix>/<station>/event
type SnapshotPublisher struct {
	pub    Publisher
	codec  Codec
	prefix string
	log    logger.Logger
}

// eventPayload is the wire form of a generated event.
type eventPayload struct {
	Station         string         `json:"station"`
	Hour            int            `json:"hour"`
	Kind            string         `json:"kind"`
	Name            string         `json:"name"`
	DurationSeconds float64        `json:"duration_seconds"`
	SimTime         time.Time      `json:"sim_time"`
	SubEvents       []eventPayload `json:"sub_events,omitempty"`
}

// NewSnapshotPublisher connects to the broker described by cfg.
func NewSnapshotPublisher(cfg Config) (*SnapshotPublisher, error) {
	cfg.SetDefaults()
	cli, err := NewPahoClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return NewSnapshotPublisherWithClient(cli, cfg)
}

// NewSnapshotPublisherWithClient wraps an existing publisher.
func NewSnapshotPublisherWithClient(pub Publisher, cfg Config) (*SnapshotPublisher, error) {
	cfg.SetDefaults()
	codec, err := NewCodec(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &SnapshotPublisher{
		pub:    pub,
		codec:  codec,
		prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
		log:    logger.New("mqtt_publisher"),
	}, nil
}

// Topic returns the topic of kind for station.
func (p *SnapshotPublisher) Topic(station, kind string) string {
	return p.prefix + "/" + stationSlug(station) + "/" + kind
}

// Append publishes s on the snapshot topic.
func (p *SnapshotPublisher) Append(ctx context.Context, s model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.send(p.Topic(s.Workstation, "snapshot"), s)
}

// RecordSnapshot lets the publisher act as a metrics sink.
func (p *SnapshotPublisher) RecordSnapshot(s model.Snapshot) error {
	return p.send(p.Topic(s.Workstation, "snapshot"), s)
}

// RecordTransition publishes a physics transition.
func (p *SnapshotPublisher) RecordTransition(t events.Transition) error {
	if err := p.send(p.Topic(t.Station, "transition"), t); err != nil {
		p.log.Errorf("publish transition %s: %v", t.Type, err)
		return err
	}
	return nil
}

// RecordEvent publishes a generated event.
func (p *SnapshotPublisher) RecordEvent(g events.Generated) error {
	payload := toEventPayload(g.Event)
	payload.Station = g.Station
	payload.Hour = g.Hour
	payload.SimTime = g.SimTime
	if err := p.send(p.Topic(g.Station, "event"), payload); err != nil {
		p.log.Errorf("publish event %s: %v", g.Event.Name, err)
		return err
	}
	return nil
}

// Close disconnects from the broker.
func (p *SnapshotPublisher) Close() error {
	p.pub.Disconnect()
	return nil
}

func (p *SnapshotPublisher) send(topic string, v any) error {
	data, err := p.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	return p.pub.Publish(topic, data)
}

func toEventPayload(ev events.Event) eventPayload {
	out := eventPayload{
		Kind:            ev.Kind.String(),
		Name:            ev.Name,
		DurationSeconds: ev.Duration.Seconds(),
	}
	for _, sub := range ev.SubEvents {
		out.SubEvents = append(out.SubEvents, toEventPayload(sub))
	}
	return out
}

func stationSlug(name string) string {
	if name == "" {
		return "station"
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
