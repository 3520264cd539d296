// Package snapshot persists the per-tick station snapshots of a run.
package snapshot

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kilianp07/wssim/core/model"
)

// Store persists snapshots.
type Store interface {
	Append(ctx context.Context, s model.Snapshot) error
	Close() error
}

// Query filters stored snapshots. Zero fields match everything.
type Query struct {
	Start   time.Time
	End     time.Time
	RunID   string
	Station string
}

// Match reports whether s passes the filter.
func (q Query) Match(s model.Snapshot) bool {
	if !q.Start.IsZero() && s.SimTime.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && s.SimTime.After(q.End) {
		return false
	}
	if q.RunID != "" && s.RunID != q.RunID {
		return false
	}
	if q.Station != "" && s.Workstation != q.Station {
		return false
	}
	return true
}

// Querier is implemented by stores that can read snapshots back.
type Querier interface {
	Query(ctx context.Context, q Query) ([]model.Snapshot, error)
}

// Multi writes every snapshot to several stores.
type Multi struct {
	Stores []Store
}

// NewMulti returns a Multi over stores.
func NewMulti(stores ...Store) *Multi { return &Multi{Stores: stores} }

// Append writes s to every store and joins the errors.
func (m *Multi) Append(ctx context.Context, s model.Snapshot) error {
	var errs []error
	for _, st := range m.Stores {
		errs = append(errs, st.Append(ctx, s))
	}
	return errors.Join(errs...)
}

// Close closes every store.
func (m *Multi) Close() error {
	var errs []error
	for _, st := range m.Stores {
		errs = append(errs, st.Close())
	}
	return errors.Join(errs...)
}

// Query reads from the first store that supports it.
func (m *Multi) Query(ctx context.Context, q Query) ([]model.Snapshot, error) {
	for _, st := range m.Stores {
		if qr, ok := st.(Querier); ok {
			return qr.Query(ctx, q)
		}
	}
	return nil, errors.New("no queryable snapshot store configured")
}

func sortBySimTime(out []model.Snapshot) {
	sort.SliceStable(out, func(i, j int) bool { return out[i].SimTime.Before(out[j].SimTime) })
}
