package event

import (
	"testing"
)

func TestEmitter_OnDispatchesMatchingEvents(t *testing.T) {
	e := NewEmitter()

	var got []Event
	e.On(FSDeleted, func(ev Event) { got = append(got, ev) })

	e.Emit(FSDeletedEvent{Path: "/a"})
	e.Emit(FSCreatedEvent{Path: "/b"})

	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	ev, ok := got[0].(FSDeletedEvent)
	if !ok {
		t.Fatalf("got[0] = %T, want FSDeletedEvent", got[0])
	}
	if ev.Path != "/a" {
		t.Fatalf("ev.Path = %q, want %q", ev.Path, "/a")
	}
}

func TestEmitter_OnAnyReceivesEverything(t *testing.T) {
	e := NewEmitter()

	var names []string
	e.OnAny(func(ev Event) { names = append(names, ev.EventName()) })

	e.Emit(FSCreatedEvent{Path: "/a"})
	e.Emit(FSRenamedEvent{OldPath: "/a", NewPath: "/b"})
	e.Emit(SessionSavedEvent{Panels: 3})

	want := []string{FSCreated, FSRenamed, SessionSaved}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := NewEmitter()

	calls := 0
	off := e.On(FSChanged, func(Event) { calls++ })

	e.Emit(FSChangedEvent{Path: "/a"})
	off()
	e.Emit(FSChangedEvent{Path: "/b"})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEmitter_UnsubscribeKeepsOtherListeners(t *testing.T) {
	e := NewEmitter()

	var first, second int
	offFirst := e.On(FSChanged, func(Event) { first++ })
	e.On(FSChanged, func(Event) { second++ })

	offFirst()
	e.Emit(FSChangedEvent{Path: "/a"})

	if first != 0 {
		t.Fatalf("first = %d, want 0", first)
	}
	if second != 1 {
		t.Fatalf("second = %d, want 1", second)
	}
}
