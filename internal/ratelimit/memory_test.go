package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(limit int, window time.Duration) (*MemoryLimiter, *time.Time) {
	l := NewMemoryLimiter(limit, window)
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiterFixedWindow(t *testing.T) {
	l, now := newTestLimiter(3, time.Hour)
	ctx := context.Background()
	start := *now

	// t=0, t=5m, t=10m: all allowed
	for i, offset := range []time.Duration{0, 5 * time.Minute, 10 * time.Minute} {
		*now = start.Add(offset)
		dec, err := l.CheckAndRecord(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if !dec.Allowed {
			t.Fatalf("call %d at %s should be allowed", i+1, offset)
		}
	}

	// 4th within the window: denied with ~45m cooldown left
	*now = start.Add(15 * time.Minute)
	dec, err := l.CheckAndRecord(ctx, "user@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Fatal("4th call inside the window should be denied")
	}
	if got := RetryAfterSeconds(dec.RetryAfter); got != 45*60 {
		t.Fatalf("retry after = %ds, want %d", got, 45*60)
	}

	// after the window elapses the count resets to 1
	*now = start.Add(61 * time.Minute)
	dec, err = l.CheckAndRecord(ctx, "user@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Allowed {
		t.Fatal("call after window elapsed should be allowed")
	}
}

func TestMemoryLimiterPerIdentity(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	if dec, _ := l.CheckAndRecord(ctx, "a@example.com"); !dec.Allowed {
		t.Fatal("first identity should be allowed")
	}
	if dec, _ := l.CheckAndRecord(ctx, "b@example.com"); !dec.Allowed {
		t.Fatal("second identity must not share the first identity's window")
	}
	if dec, _ := l.CheckAndRecord(ctx, "a@example.com"); dec.Allowed {
		t.Fatal("first identity should now be denied")
	}
}

func TestMemoryLimiterConcurrentIncrements(t *testing.T) {
	const limit = 50
	l, _ := newTestLimiter(limit, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dec, err := l.CheckAndRecord(ctx, "hot@example.com")
			if err != nil {
				t.Error(err)
				return
			}
			if dec.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Fatalf("allowed %d of 200 concurrent calls, want exactly %d", allowed, limit)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{45 * time.Minute, 2700},
		{1500 * time.Millisecond, 2},
		{time.Second, 1},
		{10 * time.Millisecond, 1},
		{0, 1},
	}
	for _, tc := range cases {
		if got := RetryAfterSeconds(tc.in); got != tc.want {
			t.Errorf("RetryAfterSeconds(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
