// Package resource implements the resource controller that bounds a
// clustering run.
//
// The Controller manages three budgets:
//
//   - Memory: tracks and limits bytes held by neighbor-index edge buffers
//     (non-blocking, fail-fast)
//   - Workers: limits concurrent similarity workers during all-pairs passes
//   - IO: rate-limits fingerprint blob reads
//
// # Memory Management
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(blockBytes); err != nil {
//	    // ErrMemoryLimitExceeded - the run is aborted
//	}
//	defer rc.ReleaseMemory(blockBytes)
//
// # Worker Limits
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully. A nil Controller has no
// memory limit, GOMAXPROCS workers and no IO limit.
package resource
