package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/porchest/portal-api/internal/platform/health"
)

// fakeChecker is a test double for ports.HealthChecker.
type fakeChecker struct {
	name  string
	check func(ctx context.Context) error
}

func (f *fakeChecker) Name() string { return f.name }

func (f *fakeChecker) HealthCheck(ctx context.Context) error {
	if f.check == nil {
		return nil
	}
	return f.check(ctx)
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	r := health.New()
	results := r.CheckAll(context.Background())

	if results == nil {
		t.Fatal("expected non-nil map, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty map, got %d entries", len(results))
	}
}

func TestCheckAll_AllHealthy(t *testing.T) {
	t.Parallel()

	r := health.New()
	r.Register(&fakeChecker{name: "mongo"})
	r.Register(&fakeChecker{name: "webhook"})

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["mongo"] != nil {
		t.Errorf("mongo check = %v, want nil", results["mongo"])
	}
	if results["webhook"] != nil {
		t.Errorf("webhook check = %v, want nil", results["webhook"])
	}
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	unhealthyErr := errors.New("connection refused")

	r := health.New()
	r.Register(&fakeChecker{name: "mongo"})
	r.Register(&fakeChecker{
		name:  "webhook",
		check: func(context.Context) error { return unhealthyErr },
	})

	results := r.CheckAll(context.Background())

	if results["mongo"] != nil {
		t.Errorf("mongo check = %v, want nil", results["mongo"])
	}
	if results["webhook"] == nil {
		t.Fatal("webhook check = nil, want error")
	}
	if results["webhook"].Error() != "connection refused" {
		t.Errorf("webhook check = %q, want %q", results["webhook"].Error(), "connection refused")
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := health.New()
	r.Register(&fakeChecker{
		name: "mongo",
		check: func(ctx context.Context) error {
			return ctx.Err()
		},
	})

	results := r.CheckAll(ctx)

	if !errors.Is(results["mongo"], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results["mongo"])
	}
}

func TestCheckAll_DuplicateNames_LastWriteWins(t *testing.T) {
	t.Parallel()

	secondErr := errors.New("second failure")

	r := health.New()
	r.Register(&fakeChecker{name: "mongo"})
	r.Register(&fakeChecker{
		name:  "mongo",
		check: func(context.Context) error { return secondErr },
	})

	results := r.CheckAll(context.Background())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !errors.Is(results["mongo"], secondErr) {
		t.Errorf("mongo check = %v, want %v (from last registered checker)", results["mongo"], secondErr)
	}
}

func TestCheckAll_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	const goroutines = 50

	// Half the goroutines register checkers, half call CheckAll.
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				r.Register(&fakeChecker{name: "checker"})
			}()
		} else {
			go func() {
				defer wg.Done()
				r.CheckAll(context.Background())
			}()
		}
	}

	wg.Wait()
}
