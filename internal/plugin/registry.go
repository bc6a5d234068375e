package plugin

// registry is a name-keyed store that preserves insertion order. Lifecycle
// runners iterate it in exactly the order entries were first registered;
// re-registering a name swaps the value but keeps the original position.
type registry[T any] struct {
	entries []entry[T]
	index   map[string]int
}

type entry[T any] struct {
	name  string
	value T
}

// register appends a new entry or, if the name is already present, replaces
// its value in place. Replacing is the normal path for a module that is
// loaded twice, not an error.
func (r *registry[T]) register(name string, value T) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.entries[i].value = value
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry[T]{name: name, value: value})
}

func (r *registry[T]) lookup(name string) (T, bool) {
	if i, ok := r.index[name]; ok {
		return r.entries[i].value, true
	}
	var zero T
	return zero, false
}

// snapshot copies the entry slice so callers can iterate and invoke
// callbacks without holding the context lock.
func (r *registry[T]) snapshot() []entry[T] {
	out := make([]entry[T], len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *registry[T]) len() int { return len(r.entries) }
