package http_test

import (
	"context"
	"sync"
	"testing"
	"time"

	jobhttp "github.com/fwojciec/jobcore/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeWait(t *testing.T, l *jobhttp.DomainLimiter, domain string) time.Duration {
	t.Helper()
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), domain))
	return time.Since(start)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("lets the first request to a board through", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(10)

		assert.Less(t, timeWait(t, l, "boards.greenhouse.io"), 50*time.Millisecond)
	})

	t.Run("spaces out requests to the same board", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(10)
		timeWait(t, l, "boards.greenhouse.io")

		assert.GreaterOrEqual(t, timeWait(t, l, "boards.greenhouse.io"), 80*time.Millisecond)
	})

	t.Run("treats www and case variants as one host", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(10)
		timeWait(t, l, "www.Indeed.com")

		assert.GreaterOrEqual(t, timeWait(t, l, "indeed.com"), 80*time.Millisecond)
	})

	t.Run("keeps separate budgets per board", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(10)
		timeWait(t, l, "boards.greenhouse.io")

		assert.Less(t, timeWait(t, l, "jobs.lever.co"), 50*time.Millisecond)
	})

	t.Run("applies per-host rate overrides", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(1)
		l.SetRate("jobs.lever.co", 100)
		timeWait(t, l, "jobs.lever.co")

		assert.Less(t, timeWait(t, l, "jobs.lever.co"), 50*time.Millisecond)
	})

	t.Run("returns the context error while waiting", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(1)
		timeWait(t, l, "linkedin.com")
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "linkedin.com"))
	})

	t.Run("serves concurrent callers", func(t *testing.T) {
		t.Parallel()

		l := jobhttp.NewDomainLimiter(100)
		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- l.Wait(context.Background(), "myworkdayjobs.com")
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})
}
