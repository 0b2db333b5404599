package cosim

// OneOrMany selects either a single item or an ordered collection of items.
//
// The distinction matters for the shape of a [Record]: selecting one
// attribute yields one series per entity, while a collection of attributes
// (even a one-element collection) adds a rank. The zero value selects
// nothing.
type OneOrMany[T any] struct {
	items []T
	many  bool
}

// One selects a single item.
func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{items: []T{v}}
}

// Many selects an ordered collection. Many() with no arguments is empty and
// behaves like the zero value.
func Many[T any](vs ...T) OneOrMany[T] {
	return OneOrMany[T]{items: vs, many: true}
}

// Items returns the selected items in order.
func (o OneOrMany[T]) Items() []T { return o.items }

// Len returns the number of selected items.
func (o OneOrMany[T]) Len() int { return len(o.items) }

// IsMany reports whether the selection was made with [Many].
func (o OneOrMany[T]) IsMany() bool { return o.many }

// IsEmpty reports whether nothing is selected.
func (o OneOrMany[T]) IsEmpty() bool { return len(o.items) == 0 }
