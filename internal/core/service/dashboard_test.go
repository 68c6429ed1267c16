package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

func TestDashboardResolver_Found(t *testing.T) {
	api := &stubDashboardAPI{
		findFn:   func(string) (string, error) { return "dash-1", nil },
		createFn: func(string) (string, error) { t.Fatal("create must not be called"); return "", nil },
	}
	id, err := NewDashboardResolver(api, zerolog.Nop()).GetOrCreate(context.Background(), "tok", "u1")
	if err != nil || id != "dash-1" {
		t.Fatalf("expected dash-1, got %q, %v", id, err)
	}
}

func TestDashboardResolver_CreatesWhenMissing(t *testing.T) {
	api := &stubDashboardAPI{
		findFn:   func(string) (string, error) { return "", domain.ErrDashboardNotFound },
		createFn: func(string) (string, error) { return "dash-new", nil },
	}
	id, err := NewDashboardResolver(api, zerolog.Nop()).GetOrCreate(context.Background(), "tok", "u1")
	if err != nil || id != "dash-new" {
		t.Fatalf("expected dash-new, got %q, %v", id, err)
	}
	if api.creates != 1 {
		t.Fatalf("expected one create, got %d", api.creates)
	}
}

func TestDashboardResolver_ConflictRereads(t *testing.T) {
	finds := 0
	api := &stubDashboardAPI{
		findFn: func(string) (string, error) {
			finds++
			if finds == 1 {
				return "", domain.ErrDashboardNotFound
			}
			return "dash-winner", nil
		},
		createFn: func(string) (string, error) { return "", domain.ErrDashboardExists },
	}
	id, err := NewDashboardResolver(api, zerolog.Nop()).GetOrCreate(context.Background(), "tok", "u1")
	if err != nil || id != "dash-winner" {
		t.Fatalf("expected first writer's dashboard, got %q, %v", id, err)
	}
}

func TestDashboardResolver_FindErrorIsReturned(t *testing.T) {
	api := &stubDashboardAPI{
		findFn: func(string) (string, error) { return "", domain.ErrBackendUnavailable },
	}
	_, err := NewDashboardResolver(api, zerolog.Nop()).GetOrCreate(context.Background(), "tok", "u1")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if api.creates != 0 {
		t.Fatal("create must not run when find fails")
	}
}

func TestDashboardResolver_EmptyUserID(t *testing.T) {
	api := &stubDashboardAPI{}
	if _, err := NewDashboardResolver(api, zerolog.Nop()).GetOrCreate(context.Background(), "tok", ""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestDashboardResolver_ConcurrentCallersCreateOnce(t *testing.T) {
	var mu sync.Mutex
	created := ""
	release := make(chan struct{})

	api := &stubDashboardAPI{
		findFn: func(string) (string, error) {
			<-release
			mu.Lock()
			defer mu.Unlock()
			if created == "" {
				return "", domain.ErrDashboardNotFound
			}
			return created, nil
		},
		createFn: func(string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			created = "dash-1"
			return created, nil
		},
	}
	r := NewDashboardResolver(api, zerolog.Nop())

	const callers = 8
	var wg sync.WaitGroup
	ids := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.GetOrCreate(context.Background(), "tok", "u1")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range ids {
		if errs[i] != nil || ids[i] != "dash-1" {
			t.Fatalf("caller %d got %q, %v", i, ids[i], errs[i])
		}
	}
	if api.creates != 1 {
		t.Fatalf("expected exactly one create, got %d", api.creates)
	}
}

func TestDashboardResolver_CancelledCallerDoesNotFailOthers(t *testing.T) {
	release := make(chan struct{})
	api := &stubDashboardAPI{
		findFn: func(string) (string, error) {
			<-release
			return "dash-1", nil
		},
		createFn: func(string) (string, error) { t.Error("create must not be called"); return "", nil },
	}
	r := NewDashboardResolver(api, zerolog.Nop())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.GetOrCreate(firstCtx, "tok", "u1")
		firstErr <- err
	}()
	for api.findCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		id  string
		err error
	}
	second := make(chan result, 1)
	go func() {
		id, err := r.GetOrCreate(context.Background(), "tok", "u1")
		second <- result{id, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller: expected context.Canceled, got %v", err)
	}

	close(release)
	res := <-second
	if res.err != nil || res.id != "dash-1" {
		t.Fatalf("second caller got %q, %v", res.id, res.err)
	}
	if api.findCount() != 1 {
		t.Fatalf("expected one shared lookup, got %d", api.findCount())
	}
	if api.cancelled != 0 {
		t.Fatal("shared lookup must not see the first caller's cancellation")
	}
}
