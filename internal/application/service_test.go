package application

import (
	"testing"
	"time"
)

func TestNewServiceClockAdvances(t *testing.T) {
	t.Parallel()

	svc := NewService(Dependencies{})

	first := svc.nowFn()
	time.Sleep(20 * time.Millisecond)
	second := svc.nowFn()

	if !second.After(first) {
		t.Fatalf("expected clock to advance, got first=%v second=%v", first, second)
	}
	if second.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps, got %v", second.Location())
	}
}
