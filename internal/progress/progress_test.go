package progress

import (
	"errors"
	"testing"
	"time"
)

func TestIncrementor_FirstCallDelivered(t *testing.T) {
	var calls []int
	inc := NewIncrementor(func(done int) error {
		calls = append(calls, done)
		return nil
	})

	if err := inc.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("expected first call delivered with count 1, got %v", calls)
	}
}

func TestIncrementor_Throttled(t *testing.T) {
	var calls []int
	inc := NewIncrementor(func(done int) error {
		calls = append(calls, done)
		return nil
	})

	// Rapid increments inside the throttle window only deliver once.
	for i := 0; i < 10; i++ {
		if err := inc.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if len(calls) != 1 {
		t.Errorf("expected 1 delivery, got %d", len(calls))
	}
	if inc.Count() != 10 {
		t.Errorf("expected count 10, got %d", inc.Count())
	}
}

func TestIncrementor_DeliversAfterInterval(t *testing.T) {
	var calls []int
	inc := NewIncrementor(func(done int) error {
		calls = append(calls, done)
		return nil
	})

	if err := inc.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	inc.lastSent = time.Now().Add(-2 * throttleInterval)
	if err := inc.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	if len(calls) != 2 || calls[1] != 2 {
		t.Errorf("expected second delivery with count 2, got %v", calls)
	}
}

func TestIncrementor_ErrorPropagated(t *testing.T) {
	boom := errors.New("cancelled")
	inc := NewIncrementor(func(done int) error { return boom })

	if err := inc.Increment(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestIncrementor_NilCallback(t *testing.T) {
	inc := NewIncrementor(nil)
	for i := 0; i < 5; i++ {
		if err := inc.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if inc.Count() != 5 {
		t.Errorf("expected count 5, got %d", inc.Count())
	}
	if err := inc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func TestIncrementor_FlushBypassesThrottle(t *testing.T) {
	var calls []int
	inc := NewIncrementor(func(done int) error {
		calls = append(calls, done)
		return nil
	})

	for i := 0; i < 3; i++ {
		if err := inc.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if err := inc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(calls) != 2 || calls[len(calls)-1] != 3 {
		t.Errorf("expected flush to deliver final count, got %v", calls)
	}
}
