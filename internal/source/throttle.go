package source

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type throttled struct {
	src     Source
	limiter *rate.Limiter
}

// Throttle wraps src so that every call first waits on a token bucket of rps
// requests per second. A non-positive rps disables the limit.
func Throttle(src Source, rps float64, burst int) Source {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &throttled{
		src:     src,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (t *throttled) ListActivities(ctx context.Context, start, end time.Time) ([]Metadata, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.src.ListActivities(ctx, start, end)
}

func (t *throttled) DownloadTCX(ctx context.Context, activityID int64) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.src.DownloadTCX(ctx, activityID)
}
