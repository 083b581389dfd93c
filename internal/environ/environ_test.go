package environ

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestNewMemoryCopiesInput(t *testing.T) {
	t.Parallel()

	src := map[string]string{"A": "1"}
	env := NewMemory(src)
	src["A"] = "2"

	got, ok := env.Lookup("A")
	if !ok || got != "1" {
		t.Fatalf("expected A=1, got %q (set=%v)", got, ok)
	}

	// ensure mutation safety
	snap := env.Snapshot()
	snap["A"] = "3"
	if again, _ := env.Lookup("A"); again != "1" {
		t.Fatalf("expected defensive copy, got %q", again)
	}
}

func TestMemoryDistinguishesEmptyFromUnset(t *testing.T) {
	t.Parallel()

	env := NewMemory(map[string]string{"EMPTY": ""})

	if _, ok := env.Lookup("EMPTY"); !ok {
		t.Fatalf("expected EMPTY to be reported as set")
	}
	if _, ok := env.Lookup("MISSING"); ok {
		t.Fatalf("expected MISSING to be reported as unset")
	}
}

func TestMemorySetRejectsInvalidNames(t *testing.T) {
	t.Parallel()

	env := NewMemory(nil)
	for _, name := range []string{"", "A=B", "A\x00"} {
		if err := env.Set(name, "x"); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
	if err := env.Set("OK", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestZeroValueMemoryIsUsable(t *testing.T) {
	t.Parallel()

	var env Memory
	if err := env.Set("A", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := env.Lookup("A"); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
}

func TestFromListAndEnviron(t *testing.T) {
	t.Parallel()

	env := FromList([]string{"B=2", "A=1", "broken", "=skip", "A=3", "C=x=y"})

	want := []string{"A=3", "B=2", "C=x=y"}
	if got := env.Environ(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	env := NewMemory(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("VAR_%d", i)
			if err := env.Set(name, "v"); err != nil {
				t.Errorf("set %s: %v", name, err)
			}
			_, _ = env.Lookup(name)
			_ = env.Environ()
		}(i)
	}
	wg.Wait()

	if got := len(env.Snapshot()); got != 20 {
		t.Fatalf("expected 20 variables, got %d", got)
	}
}

func TestProcessLookupAndSet(t *testing.T) {
	t.Setenv("MLFS_ENVIRON_TEST", "before")

	var env Process
	if got, ok := env.Lookup("MLFS_ENVIRON_TEST"); !ok || got != "before" {
		t.Fatalf("expected before, got %q (set=%v)", got, ok)
	}
	if err := env.Set("MLFS_ENVIRON_TEST", "after"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := env.Lookup("MLFS_ENVIRON_TEST"); got != "after" {
		t.Fatalf("expected after, got %q", got)
	}
	if err := env.Set("", "x"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
