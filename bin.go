package bin

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/toutaio/toutago-bin/future"
	"github.com/toutaio/toutago-bin/registry"
)

// entry is the stored form of an item. Its address identifies one particular
// registration, so a settled future only untracks itself and never a later
// item stored under the same key.
type entry struct {
	item Item
}

// Future is the part of an asynchronous result a Bin needs in order to track
// it. *future.Future[T] satisfies it for every T.
type Future interface {
	Status() future.Status
	Finally(fn func())
	Cancel() bool
}

// Bin collects disposable items and releases each of them exactly once:
// when it is removed, when it is replaced under the same key, or when the
// Bin itself is destroyed.
//
// A destroyed Bin stays empty. Items added afterwards are disposed at once.
//
// All methods are goroutine-safe. Cleanup actions run outside the Bin's lock,
// so they may call back into the same Bin.
type Bin struct {
	items   *registry.Registry[*entry]
	keys    KeyGenerator
	log     *zap.Logger
	onError ErrorHandler
	options []Option

	// detach forgets this Bin in its parent; set by Child.
	detach func()
}

// New creates an empty, alive Bin.
//
// Example:
//
//	b := bin.New()
//	defer b.Destroy()
//	b.Add(bin.Func(cancel))
func New(options ...Option) *Bin {
	b := &Bin{
		items:   registry.New[*entry](),
		keys:    SlugKeys,
		log:     Logger(),
		options: options,
	}

	for _, opt := range options {
		if err := opt(b); err != nil {
			panic(fmt.Sprintf("failed to apply option: %v", err))
		}
	}

	return b
}

// Add stores item under a freshly generated key and returns it unchanged.
// If the Bin is already destroyed the item is disposed immediately instead.
func (b *Bin) Add(item Item) Item {
	return b.AddNamed(b.keys(), item)
}

// AddNamed stores item under key and returns it unchanged.
//
// If key already holds an item, that item is disposed before the new one is
// stored. If the Bin is already destroyed the new item is disposed
// immediately and never stored.
func (b *Bin) AddNamed(key string, item Item) Item {
	b.put(key, &entry{item: item})
	return item
}

// AddFuture tracks a pending future so that it is cancelled if the Bin is
// destroyed first. Once the future settles it is dropped from the Bin without
// being cancelled.
//
// A future that has already settled is returned untouched and not tracked.
// A pending future handed to a destroyed Bin is cancelled immediately.
func (b *Bin) AddFuture(f Future) Future {
	if f.Status() != future.StatusPending {
		return f
	}

	key := b.keys()
	e := &entry{item: CancelerBool(f)}
	b.put(key, e)

	// Runs immediately if f settled in the meantime.
	f.Finally(func() {
		b.untrack(key, e)
	})

	return f
}

// Remove disposes the item stored under key and forgets it.
// Removing a missing key does nothing.
func (b *Bin) Remove(key string) error {
	e, ok := b.items.Take(key)
	if !ok {
		return nil
	}
	b.log.Debug("removing item", zap.String("key", key), zap.Stringer("kind", e.item.Kind()))
	return b.disposeEntry(key, e)
}

// Get returns the item stored under key.
func (b *Bin) Get(key string) (Item, bool) {
	e, ok := b.items.Get(key)
	if !ok {
		return Item{}, false
	}
	return e.item, true
}

// Has reports whether an item is stored under key.
func (b *Bin) Has(key string) bool {
	return b.items.Has(key)
}

// Len returns the number of tracked items.
func (b *Bin) Len() int {
	return b.items.Len()
}

// Keys returns the keys of tracked items in insertion order.
func (b *Bin) Keys() []string {
	return b.items.Keys()
}

// Destroyed reports whether Destroy has been called.
func (b *Bin) Destroyed() bool {
	return b.items.Sealed()
}

// Destroy marks the Bin destroyed and disposes every item it holds.
// Connections are disconnected first so that no more events arrive while the
// rest is torn down.
//
// A failing cleanup does not stop the sweep; all failures are combined into
// the returned error. Calling Destroy again is harmless and returns nil.
func (b *Bin) Destroy() error {
	if !b.items.Seal() {
		b.log.Debug("destroying bin", zap.Int("items", b.items.Len()))
		if b.detach != nil {
			b.detach()
		}
	}

	var errs error
	for _, key := range b.items.KeysWhere(isConnection) {
		if e, ok := b.items.TakeIf(key, isConnection); ok {
			errs = multierr.Append(errs, b.disposeEntry(key, e))
		}
	}
	return multierr.Append(errs, b.drain())
}

// Child creates a Bin with the same options that is destroyed together with
// b. Destroying the child on its own drops it from b. The child of a
// destroyed Bin is returned already destroyed.
func (b *Bin) Child() *Bin {
	child := New(b.options...)
	key := b.keys()
	e := &entry{item: Destroyer(child)}
	child.detach = func() {
		b.untrack(key, e)
	}
	b.put(key, e)
	return child
}

// drain takes and disposes the oldest entry until none are left, so entries
// added by a cleanup action are swept too.
func (b *Bin) drain() error {
	var errs error
	for {
		key, e, ok := b.items.TakeFirst(nil)
		if !ok {
			return errs
		}
		errs = multierr.Append(errs, b.disposeEntry(key, e))
	}
}

// put stores e under key, disposing whatever occupied the key first.
func (b *Bin) put(key string, e *entry) {
	for {
		old, evicted, err := b.items.Put(key, e)
		if err != nil {
			b.log.Debug("bin destroyed, disposing new item",
				zap.String("key", key),
				zap.Stringer("kind", e.item.Kind()))
			b.report(key, b.disposeEntry(key, e))
			return
		}
		if !evicted {
			return
		}

		b.log.Debug("replacing item",
			zap.String("key", key),
			zap.Stringer("kind", old.item.Kind()))
		b.report(key, b.disposeEntry(key, old))
	}
}

// untrack forgets e without disposing it.
func (b *Bin) untrack(key string, e *entry) {
	if _, ok := b.items.TakeIf(key, func(cur *entry) bool { return cur == e }); ok {
		b.log.Debug("item untracked", zap.String("key", key))
	}
}

func (b *Bin) disposeEntry(key string, e *entry) error {
	if err := dispose(e.item); err != nil {
		b.log.Warn("cleanup failed",
			zap.String("key", key),
			zap.Stringer("kind", e.item.Kind()),
			zap.Error(err))
		return &DisposeError{Key: key, Kind: e.item.Kind(), Cause: err}
	}
	return nil
}

func (b *Bin) report(key string, err error) {
	if err != nil && b.onError != nil {
		b.onError(key, err)
	}
}

func isConnection(e *entry) bool {
	return e.item.Kind() == KindConnection
}
