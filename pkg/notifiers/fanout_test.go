package notifiers

import (
	"context"
	"errors"
	"testing"
)

type stubNotifier struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubNotifier) ID() string   { return s.id }
func (s *stubNotifier) Type() string { return s.typ }
func (s *stubNotifier) Notify(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingNotifier struct {
	stubNotifier
}

func (c *closingNotifier) Close() error {
	c.closed = true
	return nil
}

func TestFanoutNotifyAggregatesErrors(t *testing.T) {
	ok := &stubNotifier{id: "ok", typ: TypeHTTP}
	bad := &stubNotifier{id: "bad", typ: TypeHTTP, err: errors.New("failed")}
	fanout := NewFanout([]Notifier{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil notifiers to be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Notify(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every notifier should be called once, got %d/%d", ok.calls, bad.calls)
	}
}

func TestFanoutNilIsNoop(t *testing.T) {
	var fanout *Fanout
	count, err := fanout.Notify(context.Background(), Event{})
	if count != 0 || err != nil {
		t.Fatalf("nil fanout: count=%d err=%v", count, err)
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFanoutCloseClosesClosers(t *testing.T) {
	c := &closingNotifier{stubNotifier{id: "ps", typ: TypePubSub}}
	fanout := NewFanout([]Notifier{c, &stubNotifier{id: "h"}})
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !c.closed {
		t.Fatalf("closer was not closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	ns, err := BuildAll(context.Background(), reg, []NotifierConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(ns) != 1 || ns[0].Type() != TypeHTTP {
		t.Fatalf("expected 1 http notifier, got %#v", ns)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []NotifierConfig{
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestNewBatchSignedEvent(t *testing.T) {
	evt := NewBatchSignedEvent("T1", 7, nil)
	if evt.ID == "" || evt.Type != EventBatchSigned || evt.Ticket != "T1" || evt.TemplateID != 7 {
		t.Fatalf("unexpected event %#v", evt)
	}
	if evt.OccurredAt.IsZero() {
		t.Fatalf("OccurredAt not set")
	}
	other := NewBatchSignedEvent("T1", 7, nil)
	if other.ID == evt.ID {
		t.Fatalf("event ids must be unique")
	}
}
