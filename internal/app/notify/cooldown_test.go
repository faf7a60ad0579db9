package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCooldownStore struct {
	records map[[2]int64]time.Time
	err     error
}

func newFakeCooldownStore() *fakeCooldownStore {
	return &fakeCooldownStore{records: make(map[[2]int64]time.Time)}
}

func (f *fakeCooldownStore) GetCooldown(_ context.Context, senderID, receiverID int64) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	t, ok := f.records[[2]int64{senderID, receiverID}]
	return t, ok, nil
}

func (f *fakeCooldownStore) UpsertCooldown(_ context.Context, senderID, receiverID int64, sentAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.records[[2]int64{senderID, receiverID}] = sentAt
	return nil
}

func TestMayNotify(t *testing.T) {
	window := 15 * time.Minute
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{name: "no record", want: true},
		{name: "just sent", last: now.Add(-time.Minute), want: false},
		{name: "inside window", last: now.Add(-14 * time.Minute), want: false},
		{name: "exactly at window", last: now.Add(-window), want: false},
		{name: "past window", last: now.Add(-16 * time.Minute), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeCooldownStore()
			if !tt.last.IsZero() {
				st.records[[2]int64{1, 2}] = tt.last
			}

			gate := NewCooldownGate(st, window)
			got, err := gate.MayNotify(context.Background(), 1, 2, now)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("MayNotify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMayNotifyNormalizesZones(t *testing.T) {
	window := 15 * time.Minute
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Same instant as now-10m, expressed with a +02:00 offset. Offset alone must
	// not make the record look old enough.
	zone := time.FixedZone("EET", 2*60*60)
	st := newFakeCooldownStore()
	st.records[[2]int64{1, 2}] = now.Add(-10 * time.Minute).In(zone)

	gate := NewCooldownGate(st, window)
	got, err := gate.MayNotify(context.Background(), 1, 2, now)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Fatal("MayNotify = true for a 10-minute-old record in a non-UTC zone")
	}
}

func TestMayNotifyIsDirectional(t *testing.T) {
	window := 15 * time.Minute
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	st := newFakeCooldownStore()
	gate := NewCooldownGate(st, window)

	if err := gate.RecordNotify(context.Background(), 1, 2, now); err != nil {
		t.Fatal(err)
	}

	// 1→2 is throttled, 2→1 is not.
	if got, _ := gate.MayNotify(context.Background(), 1, 2, now.Add(time.Minute)); got {
		t.Fatal("pair 1→2 should be throttled")
	}
	if got, _ := gate.MayNotify(context.Background(), 2, 1, now.Add(time.Minute)); !got {
		t.Fatal("pair 2→1 should not be throttled")
	}
}

func TestMayNotifyStoreError(t *testing.T) {
	st := newFakeCooldownStore()
	st.err = errors.New("connection refused")

	gate := NewCooldownGate(st, 15*time.Minute)
	if _, err := gate.MayNotify(context.Background(), 1, 2, time.Now()); err == nil {
		t.Fatal("store error was swallowed")
	}
}
