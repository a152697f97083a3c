package realtime

import (
	"sync"
	"testing"
)

type fakeHandle struct {
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (f *fakeHandle) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeHandle) Close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	h := &fakeHandle{}

	r.Register("u1", h)

	got, ok := r.Lookup("u1")
	if !ok {
		t.Fatal("expected u1 to be registered")
	}
	if got != Handle(h) {
		t.Fatal("lookup returned a different handle")
	}

	if _, ok := r.Lookup("u2"); ok {
		t.Fatal("expected u2 to be absent")
	}
}

func TestRegistryReplaceOnRegister(t *testing.T) {
	r := NewRegistry()
	old := &fakeHandle{}
	fresh := &fakeHandle{}

	r.Register("u1", old)
	r.Register("u1", fresh)

	got, ok := r.Lookup("u1")
	if !ok || got != Handle(fresh) {
		t.Fatal("expected the fresh handle to win")
	}
	// eviction is silent: the displaced connection is not closed by the registry
	if old.closed {
		t.Fatal("displaced handle must not be closed by the registry")
	}
}

func TestRegistryUnregisterIsHandleScoped(t *testing.T) {
	r := NewRegistry()
	old := &fakeHandle{}
	fresh := &fakeHandle{}

	r.Register("u1", old)
	r.Register("u1", fresh)

	// the old connection's disconnect hook fires after the reconnect
	r.Unregister(old)

	if _, ok := r.Lookup("u1"); !ok {
		t.Fatal("stale unregister must not evict the fresh handle")
	}

	r.Unregister(fresh)
	if _, ok := r.Lookup("u1"); ok {
		t.Fatal("expected u1 to be gone after unregistering its current handle")
	}
}

func TestRegistryNotifyUser(t *testing.T) {
	r := NewRegistry()
	h := &fakeHandle{}
	r.Register("u1", h)

	if !r.NotifyUser("u1", []byte("hello")) {
		t.Fatal("expected delivery to registered user")
	}
	if len(h.sent) != 1 || string(h.sent[0]) != "hello" {
		t.Fatalf("unexpected payloads: %v", h.sent)
	}

	if r.NotifyUser("ghost", []byte("boo")) {
		t.Fatal("expected no delivery for unknown user")
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	a := &fakeHandle{}
	b := &fakeHandle{}
	r.Register("u1", a)
	r.Register("u2", b)

	r.Close()

	if !a.closed || !b.closed {
		t.Fatal("expected all handles closed")
	}
	if _, ok := r.Lookup("u1"); ok {
		t.Fatal("expected registry cleared")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := &fakeHandle{}
			r.Register("shared", h)
			r.Lookup("shared")
			r.NotifyUser("shared", []byte("x"))
			r.Unregister(h)
		}()
	}
	wg.Wait()
}
