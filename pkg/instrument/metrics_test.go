package instrument

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/notifly-dev/notifly/pkg/notify"
	"github.com/notifly-dev/notifly/pkg/obslist"
)

func TestObserveCountsNotificationPairs(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"))

	n := &notify.Notifier{}
	c.Observe(n)

	var field string
	if _, err := notify.Set(n, &field, "x", "Name"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	before := testutil.ToFloat64(c.notifications.WithLabelValues("Name", "before"))
	after := testutil.ToFloat64(c.notifications.WithLabelValues("Name", "after"))
	if before != 1 || after != 1 {
		t.Errorf("counted before=%v after=%v, want 1 and 1", before, after)
	}
}

func TestObserveRecordsDispatchDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithBuckets([]float64{0.1, 1}))

	n := &notify.Notifier{}
	c.Observe(n)

	var field string
	if _, err := notify.Set(n, &field, "x", "Name"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// One series for the member's before/after window.
	if got := testutil.CollectAndCount(c.dispatchSeconds); got != 1 {
		t.Errorf("histogram has %d series, want 1", got)
	}
}

func TestObserveListCountsActions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	l := obslist.New[int]()
	ObserveList(c, l)

	if err := l.Append(1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if got := testutil.ToFloat64(c.structuralEvents.WithLabelValues("add")); got != 1 {
		t.Errorf("add count %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.structuralEvents.WithLabelValues("reset")); got != 1 {
		t.Errorf("reset count %v, want 1", got)
	}
}

func TestCountFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	c.CountFailures(nil)
	if got := testutil.ToFloat64(c.listenerFailures); got != 0 {
		t.Fatalf("nil error counted %v failures", got)
	}

	n := &notify.Notifier{}
	n.AttachChanged(func(any, notify.Change) { panic("one") })
	n.AttachChanged(func(any, notify.Change) { panic("two") })
	var field string
	_, err := notify.Set(n, &field, "x", "Name")
	c.CountFailures(err)

	if got := testutil.ToFloat64(c.listenerFailures); got != 2 {
		t.Errorf("counted %v failures, want 2", got)
	}
}
