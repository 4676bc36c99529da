package eviction

import (
	"errors"
	"testing"
)

func mustPolicy(t *testing.T, pt PolicyType) Policy {
	t.Helper()
	p, err := NewEvictionPolicy(pt)
	if err != nil {
		t.Fatalf("NewEvictionPolicy(%s): %v", pt, err)
	}
	return p
}

func expectEvict(t *testing.T, p Policy, want string) {
	t.Helper()
	got, ok := p.Evict()
	if !ok || got != want {
		t.Fatalf("Evict() = %q, %v; want %q", got, ok, want)
	}
}

func TestUnknownPolicy(t *testing.T) {
	if _, err := NewEvictionPolicy("MRU"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestEmptyPolicyHasNothingToEvict(t *testing.T) {
	for _, pt := range []PolicyType{LFU, LRU, FIFO} {
		p := mustPolicy(t, pt)
		if k, ok := p.Evict(); ok {
			t.Fatalf("%s: Evict on empty policy returned %q", pt, k)
		}
	}
}

//
// ================= LFU =================
//

func TestLFUEvictsLeastFrequent(t *testing.T) {
	p := mustPolicy(t, LFU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.OnGet("a")
	p.OnGet("c")

	expectEvict(t, p, "b")
}

func TestLFUTieBreaksByRecency(t *testing.T) {
	p := mustPolicy(t, LFU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnGet("a")
	p.OnGet("b")
	// both at freq 2, a got there first

	expectEvict(t, p, "a")
	expectEvict(t, p, "b")
}

func TestLFUOverwriteCountsAsUse(t *testing.T) {
	p := mustPolicy(t, LFU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("a")

	if f, _ := p.(*lfuPolicy).Frequency("a"); f != 2 {
		t.Fatalf("expected freq 2 for rewritten key, got %d", f)
	}
	expectEvict(t, p, "b")
}

func TestLFURemove(t *testing.T) {
	p := mustPolicy(t, LFU)

	p.OnPut("a")
	p.OnPut("b")
	p.Remove("a")
	p.Remove("missing")

	if p.Len() != 1 {
		t.Fatalf("expected 1 tracked key, got %d", p.Len())
	}
	expectEvict(t, p, "b")
}

//
// ================= LRU =================
//

func TestLRUEvictsLeastRecent(t *testing.T) {
	p := mustPolicy(t, LRU)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.OnGet("a")
	p.OnPut("b")

	expectEvict(t, p, "c")
	expectEvict(t, p, "a")
	p.Remove("b")
	if p.Len() != 0 {
		t.Fatalf("expected empty LRU, got %d", p.Len())
	}
}

//
// ================= FIFO =================
//

func TestFIFOIgnoresAccess(t *testing.T) {
	p := mustPolicy(t, FIFO)

	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.OnGet("a")
	p.OnPut("a")
	p.Remove("b")

	expectEvict(t, p, "a")
	expectEvict(t, p, "c")
}
