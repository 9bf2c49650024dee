package reactive

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	a := New(1, WithName("count"))

	if err := Register(r, a); err != nil {
		t.Fatal(err)
	}
	if err := Register(r, a); err != nil {
		t.Errorf("re-registering the same signal should succeed, got %v", err)
	}

	b := New(2, WithName("count"))
	if err := Register(r, b); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	if err := Register(r, New(3)); !errors.Is(err, ErrUnnamed) {
		t.Errorf("expected ErrUnnamed, got %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	sig := New([]string{"a"}, WithName("tags"))
	if err := Register(r, sig); err != nil {
		t.Fatal(err)
	}

	got, err := Find[[]string](r, "tags")
	if err != nil || got != sig {
		t.Fatalf("Find = %v, %v", got, err)
	}
	if _, err := Find[int](r, "tags"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	e, err := r.Lookup("tags")
	if err != nil {
		t.Fatal(err)
	}
	data, err := e.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a"]` {
		t.Errorf("snapshot = %s", data)
	}
}

func TestRegistryEntryWatchAndAssign(t *testing.T) {
	r := NewRegistry()
	sig := New(map[string]int{}, WithName("scores"))
	if err := Register(r, sig); err != nil {
		t.Fatal(err)
	}
	e, _ := r.Lookup("scores")

	var got []map[string]int
	cancel := e.WatchJSON(func(data []byte) {
		var m map[string]int
		if err := json.Unmarshal(data, &m); err != nil {
			t.Error(err)
		}
		got = append(got, m)
	})

	if err := e.AssignJSON(KeyValue, []byte(`{"ada":3}`)); err != nil {
		t.Fatal(err)
	}
	if e.Subscribers() != 1 {
		t.Errorf("subscribers = %d", e.Subscribers())
	}
	if !cancel() {
		t.Error("cancel should remove the watcher")
	}

	if len(got) != 1 || got[0]["ada"] != 3 {
		t.Errorf("watch received %v", got)
	}
	if v, ok := e.Property(KeySignalName); !ok || v != "scores" {
		t.Errorf("signalName = %v", v)
	}
}

func TestRegistryAllAndRemove(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "a", "c"} {
		if err := Register(r, New(0, WithName(name))); err != nil {
			t.Fatal(err)
		}
	}

	all := r.All()
	if len(all) != 3 || all[0].Name() != "a" || all[2].Name() != "c" {
		t.Errorf("unexpected order")
	}

	if !r.Remove("b") || r.Remove("b") {
		t.Error("Remove should succeed once")
	}
	if len(r.All()) != 2 {
		t.Errorf("expected 2 entries after remove")
	}
}
