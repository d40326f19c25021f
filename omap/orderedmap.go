// omap is a map that remembers insertion order. The rewriter keys its
// cast table by argument position and walks it when rebuilding the
// argument list, so iteration has to be deterministic.
package omap

type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		keys: make([]K, 0),
		vals: make(map[K]V),
	}
}

func (m *Map[K, V]) Set(k K, v V) {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is the
// map's own backing slice, callers must not mutate it.
func (m *Map[K, V]) Keys() []K {
	return m.keys
}

func (m *Map[K, V]) Each(cb func(k K, v V)) {
	for _, k := range m.keys {
		cb(k, m.vals[k])
	}
}
