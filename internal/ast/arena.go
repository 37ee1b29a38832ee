package ast

// Arena stores values densely; ids are 1-based so the zero id means "none".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with room for capHint values.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data)) // #nosec G115 -- arena size is bounded by token count
}

// Get returns the value at index, or nil for index 0 and out of range ids.
// The pointer is invalidated by the next Allocate.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice returns the backing storage. READONLY.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) // #nosec G115
}
