package luaudoc

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunWorkers tests the generic worker pool for concurrency correctness.
// Run with -race flag to detect race conditions: go test -race
func TestRunWorkers(t *testing.T) {
	tests := []struct {
		name     string
		jobCount int
		jobs     int
	}{
		{"single_job_single_worker", 1, 1},
		{"multiple_jobs_single_worker", 5, 1},
		{"multiple_jobs_multiple_workers", 10, 4},
		{"more_workers_than_jobs", 3, 10},
		{"many_jobs_high_concurrency", 50, 16},
		{"zero_jobs_defaults_to_one", 5, 0},
		{"empty_jobs", 0, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inputs := make([]int, tc.jobCount)
			expected := make([]string, tc.jobCount)
			for i := range tc.jobCount {
				inputs[i] = i
				expected[i] = fmt.Sprintf("Func%d", i)
			}

			var workers atomic.Int32
			results := runWorkers(context.Background(), inputs, tc.jobs, func() func(int) string {
				workers.Add(1)
				return func(i int) string {
					return fmt.Sprintf("Func%d", i)
				}
			})

			require.Len(t, results, tc.jobCount, "should have one result per job")
			require.Equal(t, expected, results, "results keep job order")

			maxWorkers := max(tc.jobs, 1)
			require.LessOrEqual(t, int(workers.Load()), max(min(maxWorkers, tc.jobCount), 0))
		})
	}
}

func TestRunWorkersCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := runWorkers(ctx, []int{1, 2, 3}, 2, func() func(int) int {
		return func(i int) int {
			calls.Add(1)
			return i
		}
	})

	require.Len(t, results, 3)
	require.Zero(t, calls.Load(), "no job runs after cancellation")
}
