// Package bin provides a registry of disposable resources.
//
// A Bin collects things that must be released explicitly (callbacks, event
// subscriptions, objects with Destroy or Close, cancellable tasks and pending
// futures) and releases each of them exactly once, either individually or all
// together when the Bin is destroyed.
//
// # Quick Start
//
//	b := bin.New()
//	defer b.Destroy()
//
//	b.Add(bin.Func(func() { fmt.Println("cleaned up") }))
//	watcher := bin.Track(b, mustWatcher())
//
// # Items
//
// Every item carries exactly one cleanup capability. When a value is
// classified with Of, capabilities are checked in a fixed order:
//
//   - KindCallback: func() or func() error, called
//   - KindConnection: Disconnect()
//   - KindDestroyer: Destroy() error or Destroy()
//   - KindCloser: Close() error or Close()
//   - KindCanceler: Cancel() or Cancel() bool
//
// A value with none of them is accepted and ignored on disposal.
//
// # Keys
//
// Items added with Add get a generated key; AddNamed uses the caller's key.
// Adding under a key that is already in use disposes the previous item first:
//
//	b.AddNamed("ticker", bin.Func(stopOld))
//	b.AddNamed("ticker", bin.Func(stopNew)) // stopOld runs here
//	b.Remove("ticker")                      // stopNew runs here
//
// # Futures
//
// AddFuture tracks a pending future. If the Bin is destroyed before the
// future settles the future is cancelled; if the future settles first it is
// simply dropped.
//
//	f := future.Go(fetch)
//	b.AddFuture(f)
//
// # Destruction
//
// Destroy disconnects connections first, then disposes everything else.
// Destruction is terminal: a destroyed Bin stays empty and disposes any item
// added later straight away. A failing cleanup never stops the sweep; the
// failures are combined into the error Destroy returns.
//
// # Thread Safety
//
// All operations are goroutine-safe. Cleanup actions run outside the Bin's
// lock and may call back into the same Bin.
package bin
