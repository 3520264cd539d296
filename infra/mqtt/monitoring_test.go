package mqtt

import (
	"fmt"
	"testing"
	"time"

	coremon "github.com/kilianp07/wssim/core/monitoring"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestPublishErrorCaptured(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	cli, err := NewPahoClient(Config{Broker: "tcp://localhost:1883", ClientID: "id", BackoffMS: 1})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	fail := fmt.Errorf("net fail")
	mc.publishErrs = []error{fail, fail, fail, fail}
	if err := cli.Publish("wssim/s1/snapshot", []byte("{}")); err == nil {
		t.Fatalf("expected error")
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["topic"] != "wssim/s1/snapshot" || mon.tags["module"] != "mqtt" {
		t.Fatalf("tags not set")
	}
}
