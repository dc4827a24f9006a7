// Package section converts feed values into renderable rows.
package section

import (
	"fmt"

	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/genricoloni/muzewatch/internal/feed"
)

// Adapter maps one feed value to the ordered rows of its section.
// RowsFor must be pure: same value, same rows.
type Adapter[T any] interface {
	RowsFor(value T) ([]domain.Row, error)
}

// Section is a feed bound to its adapter. It is what the compositor consumes.
type Section interface {
	// Name identifies the section in logs and error reports
	Name() string

	// Subscribe calls onUpdate with freshly built rows on every push to the
	// underlying feed. The returned func releases the subscription.
	Subscribe(onUpdate func(rows []domain.Row, err error)) (cancel func())
}

type binding[T any] struct {
	feed    *feed.Feed[T]
	adapter Adapter[T]
}

// Bind ties a feed to the adapter that renders it
func Bind[T any](f *feed.Feed[T], a Adapter[T]) Section {
	return &binding[T]{feed: f, adapter: a}
}

func (b *binding[T]) Name() string {
	return b.feed.Name()
}

func (b *binding[T]) Subscribe(onUpdate func([]domain.Row, error)) func() {
	return b.feed.Subscribe(func(v T) {
		onUpdate(b.rowsFor(v))
	})
}

// rowsFor turns an adapter panic on malformed data into an error
func (b *binding[T]) rowsFor(v T) (rows []domain.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%s adapter panicked: %v", b.feed.Name(), r)
		}
	}()
	return b.adapter.RowsFor(v)
}
