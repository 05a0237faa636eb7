package drawq

import (
	"strings"
	"testing"
)

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = make(map[string]BackendFactory)
}

func TestRegisterAndNewBackend(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("test", func() Backend {
		return &recordBackend{}
	})

	b, err := NewBackend("test")
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if _, ok := b.(*recordBackend); !ok {
		t.Fatalf("backend is %T, not a recordBackend", b)
	}
}

func TestNewBackendUnknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	_, err := NewBackend("nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error %q does not name the backend", err)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register("nil", nil)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	factory := func() Backend { return &recordBackend{} }
	Register("dup", factory)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("dup", factory)
}

func TestBackendsSorted(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	factory := func() Backend { return &recordBackend{} }
	Register("zeta", factory)
	Register("alpha", factory)

	got := Backends()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Backends() = %v, want [alpha zeta]", got)
	}
}

func TestUnregister(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("gone", func() Backend { return &recordBackend{} })
	if !IsRegistered("gone") {
		t.Fatal("backend not registered")
	}
	Unregister("gone")
	if IsRegistered("gone") {
		t.Error("backend still registered after Unregister")
	}
	Unregister("gone") // no-op
}
