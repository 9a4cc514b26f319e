package iter

import (
	"context"

	"gopkg.tdl.dev/tdlc/internal/idl"
	"gopkg.tdl.dev/tdlc/internal/optional"
)

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) idl.Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	it.offset = it.offset + 1
	if it.offset >= len(it.slice) {
		return optional.None[T]()
	}
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it idl.Iterator[T], f idl.Filter[T]) idl.Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   idl.Iterator[T]
	filter idl.Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() {
			return v
		}
		if it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// NewLookahead wraps an iterator in a Lookahead implementation to enable
// peeking at the next n values.
func NewLookahead[T any](it idl.Iterator[T], n uint8) idl.Lookahead[T] {
	return &lookahead[T]{
		iter: it,
		n:    n,
	}
}

// lookahead keeps a ring of the current value plus the next n values. The
// ring is filled on first use; head always indexes the current value.
type lookahead[T any] struct {
	iter idl.Iterator[T]
	n    uint8
	ring []optional.Optional[T]
	head int
}

func (look *lookahead[T]) fill(ctx context.Context) {
	if look.ring != nil {
		return
	}
	look.ring = make([]optional.Optional[T], int(look.n)+1)
	for x := range look.ring {
		look.ring[x] = look.iter.Next(ctx)
	}
}

func (look *lookahead[T]) Next(ctx context.Context) optional.Optional[T] {
	if look.ring == nil {
		look.fill(ctx)
		return look.ring[look.head]
	}
	look.ring[look.head] = look.iter.Next(ctx)
	look.head = (look.head + 1) % len(look.ring)
	return look.ring[look.head]
}

func (look *lookahead[T]) Lookahead(ctx context.Context, n uint8) optional.Optional[T] {
	look.fill(ctx)
	if n > look.n {
		return optional.None[T]()
	}
	return look.ring[(look.head+int(n))%len(look.ring)]
}

func (look *lookahead[T]) Close(ctx context.Context) error {
	return look.iter.Close(ctx)
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
//
// Note that this type should never be referenced directly in any signature.
// Always use Filter as an input or output type.
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}
