// Package sysmem reads process heap usage for budget checks and status
// lines. Readings are advisory; they never affect search correctness.
package sysmem

import (
	"fmt"
	"runtime"
)

const mb = 1024 * 1024

// Used returns the bytes of heap currently allocated.
func Used() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// String renders a reading the way the status line reports it.
func String(used uint64) string {
	return fmt.Sprintf("memory used: %.2f MB", float64(used)/mb)
}
