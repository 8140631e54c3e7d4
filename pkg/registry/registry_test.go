package registry

import (
	"fmt"
	"sync"
	"testing"
)

type recordingObserver struct {
	mu       sync.Mutex
	added    []string
	replaced []string
	removed  []string
}

func (o *recordingObserver) OnRegister(id string, _ any, replaced bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if replaced {
		o.replaced = append(o.replaced, id)
		return
	}
	o.added = append(o.added, id)
}

func (o *recordingObserver) OnRemove(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed = append(o.removed, id)
}

func TestRegisterThenLookup(t *testing.T) {
	reg := New()
	obj := &struct{ name string }{"t"}

	reg.Register("t_abc", obj)

	got, ok := reg.Lookup("t_abc")
	if !ok {
		t.Fatal("Lookup() missed a freshly registered id")
	}
	if got != obj {
		t.Fatalf("Lookup() = %v, want %v", got, obj)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	reg := New()
	reg.Register("x", 1)
	reg.Register("x", 2)

	if got, _ := reg.Lookup("x"); got != 2 {
		t.Fatalf("Lookup() = %v, want 2", got)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	reg := New()
	reg.Register("keep", "v")

	reg.Remove("never-registered")
	reg.Remove("never-registered")

	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
	if _, ok := reg.Lookup("keep"); !ok {
		t.Fatal("unrelated entry disappeared")
	}
}

func TestRemoveDeletes(t *testing.T) {
	reg := New()
	reg.Register("a", "v")
	reg.Remove("a")

	if _, ok := reg.Lookup("a"); ok {
		t.Fatal("Lookup() found a removed id")
	}
}

func TestNamesSorted(t *testing.T) {
	reg := New()
	for _, id := range []string{"c", "a", "b"} {
		reg.Register(id, id)
	}

	names := reg.Names()
	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestObserverNotifications(t *testing.T) {
	obs := &recordingObserver{}
	reg := New(obs)

	reg.Register("a", 1)
	reg.Register("a", 2)
	reg.Remove("a")
	reg.Remove("a")

	if len(obs.added) != 1 || obs.added[0] != "a" {
		t.Errorf("added = %v, want [a]", obs.added)
	}
	if len(obs.replaced) != 1 {
		t.Errorf("replaced = %v, want one entry", obs.replaced)
	}
	if len(obs.removed) != 1 {
		t.Errorf("removed = %v, want one entry (second Remove is a no-op)", obs.removed)
	}
}

func TestConcurrentSessions(t *testing.T) {
	reg := New()

	const sessions = 16
	const perSession = 200

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSession; i++ {
				id := fmt.Sprintf("s%d_%d", s, i)
				reg.Register(id, i)
				if _, ok := reg.Lookup(id); !ok {
					t.Errorf("Lookup(%s) missed own write", id)
				}
				if i%2 == 0 {
					reg.Remove(id)
				}
			}
		}(s)
	}
	wg.Wait()

	if got, want := reg.Len(), sessions*perSession/2; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}
