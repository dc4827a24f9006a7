// Package feed provides an observable single-value holder.
//
// A Feed is not safe for concurrent use. All pushes and subscriptions must
// happen on one serialized execution context (see engine.Engine).
package feed

// Feed holds the latest value pushed by one external source and notifies
// subscribers synchronously, in subscription order.
type Feed[T any] struct {
	name    string
	value   T
	set     bool
	closed  bool
	nextID  int
	entries []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New creates an empty feed. name identifies the slot it represents.
func New[T any](name string) *Feed[T] {
	return &Feed[T]{name: name}
}

// Name returns the slot this feed represents
func (f *Feed[T]) Name() string {
	return f.name
}

// Push replaces the current value and notifies every subscriber with it.
// Pushes after Close are dropped.
func (f *Feed[T]) Push(v T) {
	if f.closed {
		return
	}
	f.value = v
	f.set = true

	// Copy so a subscriber may cancel itself during notification
	subs := make([]subscriber[T], len(f.entries))
	copy(subs, f.entries)
	for _, s := range subs {
		s.fn(v)
	}
}

// Current returns the last pushed value and whether one was ever pushed
func (f *Feed[T]) Current() (T, bool) {
	return f.value, f.set
}

// Subscribe registers fn for future pushes. If the feed already holds a value,
// fn receives it immediately. The returned func releases the subscription.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	if f.closed {
		return func() {}
	}
	id := f.nextID
	f.nextID++
	f.entries = append(f.entries, subscriber[T]{id: id, fn: fn})

	if f.set {
		fn(f.value)
	}

	return func() { f.remove(id) }
}

// Subscribers returns the number of active subscriptions
func (f *Feed[T]) Subscribers() int {
	return len(f.entries)
}

// Close releases all subscriptions. The feed ignores further pushes.
func (f *Feed[T]) Close() {
	f.closed = true
	f.entries = nil
}

func (f *Feed[T]) remove(id int) {
	for i, s := range f.entries {
		if s.id == id {
			f.entries = append(f.entries[:i:i], f.entries[i+1:]...)
			return
		}
	}
}
