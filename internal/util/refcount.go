// Package util carries small, dependency-free helpers shared across
// the server that don't belong to any one layer.
package util

import "sync/atomic"

// A RefCount can be embedded in structures to provide reference
// counting of resources.
type RefCount struct {
	n uint64
}

// IncRef increments the count by 1.
func (r *RefCount) IncRef() {
	atomic.AddUint64(&r.n, 1)
}

// DecRef decrements the count by 1. If the count has reached 0,
// DecRef will return false.
func (r *RefCount) DecRef() (remaining bool) {
	return atomic.AddUint64(&r.n, ^uint64(0)) != 0
}

// Count returns the current count.
func (r *RefCount) Count() uint64 {
	return atomic.LoadUint64(&r.n)
}
