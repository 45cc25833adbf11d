// Package registry provides goroutine-safe, insertion-ordered storage of keyed entries.
//
// A Registry can be sealed exactly once. Sealing is terminal: a sealed
// registry refuses new entries but still lets callers take the entries it
// holds, which is how a Bin drains itself during Destroy.
package registry

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
)

// ErrSealed is returned by Put once the registry has been sealed.
var ErrSealed = errors.New("registry is sealed")

// record is one stored entry; order holds them in insertion order.
type record[V any] struct {
	key   string
	value V
}

// Registry stores values under string keys.
// Iteration helpers (Keys, KeysWhere, TakeFirst) follow insertion order;
// replacing the value under a key counts as a fresh insertion.
//
// Put, Get, Has, Take and TakeIf are O(1). TakeFirst(nil) is O(1).
type Registry[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	sealed  bool
}

// New creates an empty, unsealed Registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Put stores value under key when the key is free.
//
// If the key is occupied, nothing is stored: the current occupant is removed
// and returned with ok set to true. The caller is expected to release the
// evicted value and call Put again, so that releasing the old value happens
// before the new one becomes visible.
//
// Returns ErrSealed if the registry has been sealed.
//
// This method is goroutine-safe.
func (r *Registry[V]) Put(key string, value V) (evicted V, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return evicted, false, ErrSealed
	}

	if el, exists := r.entries[key]; exists {
		return r.removeLocked(el), true, nil
	}

	r.entries[key] = r.order.PushBack(&record[V]{key: key, value: value})
	return evicted, false, nil
}

// Get retrieves the value stored under key.
//
// This method is goroutine-safe.
func (r *Registry[V]) Get(key string) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, exists := r.entries[key]
	if !exists {
		var zero V
		return zero, false
	}
	return el.Value.(*record[V]).value, true
}

// Has reports whether key is present.
//
// This method is goroutine-safe.
func (r *Registry[V]) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.entries[key]
	return exists
}

// Take removes and returns the value stored under key.
//
// This method is goroutine-safe.
func (r *Registry[V]) Take(key string) (V, bool) {
	return r.TakeIf(key, nil)
}

// TakeIf removes and returns the value stored under key if match accepts it.
// A nil match accepts any value.
//
// This method is goroutine-safe.
func (r *Registry[V]) TakeIf(key string, match func(V) bool) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero V
	el, exists := r.entries[key]
	if !exists {
		return zero, false
	}
	if match != nil && !match(el.Value.(*record[V]).value) {
		return zero, false
	}

	return r.removeLocked(el), true
}

// TakeFirst removes and returns the earliest inserted entry accepted by match.
// A nil match accepts any entry.
//
// This method is goroutine-safe.
func (r *Registry[V]) TakeFirst(match func(V) bool) (key string, value V, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for el := r.order.Front(); el != nil; el = el.Next() {
		rec := el.Value.(*record[V])
		if match == nil || match(rec.value) {
			r.removeLocked(el)
			return rec.key, rec.value, true
		}
	}
	return "", value, false
}

// KeysWhere returns, in insertion order, the keys whose values match accepts.
//
// This method is goroutine-safe.
func (r *Registry[V]) KeysWhere(match func(V) bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var keys []string
	for el := r.order.Front(); el != nil; el = el.Next() {
		rec := el.Value.(*record[V])
		if match(rec.value) {
			keys = append(keys, rec.key)
		}
	}
	return keys
}

// Seal marks the registry as sealed.
// Returns true if it had already been sealed.
//
// This method is goroutine-safe.
func (r *Registry[V]) Seal() (already bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	already = r.sealed
	r.sealed = true
	return already
}

// Sealed reports whether Seal has been called.
func (r *Registry[V]) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Len returns the number of stored entries.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Keys returns the stored keys in insertion order.
func (r *Registry[V]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, r.order.Len())
	for el := r.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*record[V]).key)
	}
	return keys
}

// String implements fmt.Stringer for debugging output.
func (r *Registry[V]) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("registry(len=%d, sealed=%v)", len(r.entries), r.sealed)
}

// removeLocked unlinks el from both the index and the order list and returns
// its value. The caller must hold r.mu.
func (r *Registry[V]) removeLocked(el *list.Element) V {
	rec := r.order.Remove(el).(*record[V])
	delete(r.entries, rec.key)
	return rec.value
}
