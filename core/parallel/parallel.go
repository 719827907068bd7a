// Package parallel provides range-splitting helpers for CPU-bound loops.
package parallel

import (
	"runtime"
	"sync"
)

// ParallelizeWorkers divides items into at most workers contiguous ranges and
// executes fn for each range in its own goroutine. workers <= 0 means one
// worker per CPU core; workers == 1 runs fn(0, items) on the calling goroutine.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := ResolveWorkers(workers)
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}
	if numWorkers == 1 {
		fn(0, items)
		return
	}

	// Ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold.
// At or below the threshold fn runs sequentially over the whole range on the calling goroutine.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	ParallelizeWorkers(items, workers, fn)
}

// ResolveWorkers maps a user-facing job count to a worker count:
// values <= 0 select runtime.NumCPU().
func ResolveWorkers(nJobs int) int {
	if nJobs <= 0 {
		return runtime.NumCPU()
	}
	return nJobs
}
