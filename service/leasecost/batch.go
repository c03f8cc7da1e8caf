package leasecost

import (
	"iter"
	"slices"
)

// MaxBatchSize is one below Cost Explorer's 200-value limit per filter
const MaxBatchSize = 199

// Batch yields contiguous chunks of items, each at most size long. A size
// below 1 is treated as MaxBatchSize.
func Batch[T any](items []T, size int) iter.Seq[[]T] {
	if size < 1 {
		size = MaxBatchSize
	}
	return slices.Chunk(items, size)
}

// filterBatchSize bounds size to what a single account filter accepts
func filterBatchSize(size int) int {
	if size < 1 || size > MaxBatchSize {
		return MaxBatchSize
	}
	return size
}
