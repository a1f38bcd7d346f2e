package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var runs atomic.Int32
	var shared atomic.Int32

	const callers = 16
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-gate
			val, err, dedup := g.Do("settle:m1", func() (any, error) {
				runs.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "done", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != "done" {
				t.Errorf("unexpected value %v", val)
			}
			if dedup {
				shared.Add(1)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	if shared.Load() != callers-1 {
		t.Fatalf("expected %d deduplicated callers, got %d", callers-1, shared.Load())
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	v1, err, _ := g.Do("a", func() (any, error) { return 1, nil })
	if err != nil || v1 != 1 {
		t.Fatalf("key a: v=%v err=%v", v1, err)
	}
	v2, err, dedup := g.Do("b", func() (any, error) { return 2, nil })
	if err != nil || v2 != 2 || dedup {
		t.Fatalf("key b: v=%v err=%v dedup=%t", v2, err, dedup)
	}
}
