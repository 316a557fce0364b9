package tracker

import "slices"

// table is an insertion-ordered collection of records keyed by ID.
// Tables are treated as immutable values once committed: a transaction
// clones a table before changing it, so readers holding the previous
// value never observe a partial write.
type table[T any] struct {
	ids  []string
	rows map[string]T
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]T)}
}

func (t table[T]) clone() table[T] {
	rows := make(map[string]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	return table[T]{ids: slices.Clone(t.ids), rows: rows}
}

func (t table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t table[T]) len() int {
	return len(t.ids)
}

// put inserts or replaces a record. New IDs are appended to the order.
func (t *table[T]) put(id string, v T) {
	if t.rows == nil {
		t.rows = make(map[string]T)
	}
	if _, exists := t.rows[id]; !exists {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.ids = slices.DeleteFunc(t.ids, func(x string) bool { return x == id })
	return true
}

// removeWhere deletes every record matching fn and returns the removed IDs.
func (t *table[T]) removeWhere(fn func(T) bool) []string {
	var removed []string
	kept := t.ids[:0:0]
	for _, id := range t.ids {
		if fn(t.rows[id]) {
			delete(t.rows, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	t.ids = kept
	return removed
}

// list returns the records in insertion order.
func (t table[T]) list() []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.rows[id])
	}
	return out
}

// filter returns the records matching fn, in insertion order.
func (t table[T]) filter(fn func(T) bool) []T {
	var out []T
	for _, id := range t.ids {
		if v := t.rows[id]; fn(v) {
			out = append(out, v)
		}
	}
	return out
}
