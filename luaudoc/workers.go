package luaudoc

import (
	"context"
	"sync"
)

type indexed[T any] struct {
	index int
	value T
}

// runWorkers processes jobs on a bounded pool and returns the results in job
// order. newWorker is called once per worker so each one can own state that
// must not be shared. Jobs not yet started when ctx is done are skipped and
// leave a zero result.
func runWorkers[J, R any](ctx context.Context, jobs []J, workers int, newWorker func() func(J) R) []R {
	out := make([]R, len(jobs))
	if len(jobs) == 0 {
		return out
	}

	results := make(chan indexed[R], 128)
	jobQueue := make(chan indexed[J], 128)
	var wg sync.WaitGroup

	workerCount := workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	worker := func() {
		defer wg.Done()
		process := newWorker()
		for job := range jobQueue {
			if ctx.Err() != nil {
				continue
			}
			results <- indexed[R]{index: job.index, value: process(job.value)}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		defer close(jobQueue)
		for i, j := range jobs {
			select {
			case jobQueue <- indexed[J]{index: i, value: j}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		out[result.index] = result.value
	}

	return out
}
