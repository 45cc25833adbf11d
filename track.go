package bin

import "github.com/toutaio/toutago-bin/future"

// Track adds v to b, classified with Of, and returns v unchanged so the call
// can wrap a constructor inline.
//
// Example:
//
//	watcher := bin.Track(b, mustWatcher())
func Track[T any](b *Bin, v T) T {
	b.Add(Of(v))
	return v
}

// TrackNamed is Track with an explicit key.
func TrackNamed[T any](b *Bin, key string, v T) T {
	b.AddNamed(key, Of(v))
	return v
}

// TrackFuture is AddFuture keeping the concrete future type.
func TrackFuture[T any](b *Bin, f *future.Future[T]) *future.Future[T] {
	b.AddFuture(f)
	return f
}
