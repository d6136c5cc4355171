package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind contiguously and hands out 1-based
// indexes; index 0 means "no node" in every ID type.
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Allocate appends value and returns its index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.items = append(a.items, value)
	idx, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	return idx
}

// Get returns nil for 0 and for indexes never allocated.
func (a *Arena[T]) Get(idx uint32) *T {
	if idx == 0 || uint64(idx) > uint64(len(a.items)) {
		return nil
	}
	return &a.items[idx-1]
}
