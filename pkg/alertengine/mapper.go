package alertengine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// MapLimited applies fn to every item with at most limit calls in flight.
// results[i] always corresponds to items[i] no matter which worker finishes
// first. A failed item leaves the zero value in its slot and never aborts
// sibling work. onProgress fires exactly once per settled item with a
// monotonically increasing count.
func MapLimited[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error), onProgress func(done, total int)) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	sem := semaphore.NewWeighted(int64(limit))
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	settle := func() {
		mu.Lock()
		done++
		if onProgress != nil {
			onProgress(done, len(items))
		}
		mu.Unlock()
	}

	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer settle()
			if err := sem.Acquire(ctx, 1); err != nil {
				return // cancelled while queued; slot stays zero
			}
			defer sem.Release(1)
			if r, err := fn(ctx, items[i]); err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()
	return results
}
