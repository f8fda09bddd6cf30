package debounce

import (
	"sync"
	"testing"
	"time"
)

func TestOnlyLastValueFires(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := New(30*time.Millisecond, func(v string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	d.Trigger("a")
	d.Trigger("ab")
	d.Trigger("abc")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "abc" {
		t.Fatalf("fired = %v, want [abc]", got)
	}
}

func TestSeparatedTriggersBothFire(t *testing.T) {
	var mu sync.Mutex
	var got []string

	d := New(20*time.Millisecond, func(v string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})

	d.Trigger("first")
	time.Sleep(60 * time.Millisecond)
	d.Trigger("second")
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("fired = %v, want [first second]", got)
	}
}

func TestStopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	fired := false

	d := New(20*time.Millisecond, func(string) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	d.Trigger("x")
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Fatal("stopped debouncer must not fire")
	}
}
