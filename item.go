package bin

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Kind identifies which cleanup capability an Item carries.
type Kind uint8

const (
	// KindNone marks a value with no recognised cleanup capability.
	// Disposing it does nothing.
	KindNone Kind = iota

	// KindCallback is a zero-argument function invoked for its side effect.
	KindCallback

	// KindConnection is an event subscription released with Disconnect.
	KindConnection

	// KindDestroyer is an object released with Destroy.
	KindDestroyer

	// KindCloser is an object released with Close.
	KindCloser

	// KindCanceler is a cancellable task released with Cancel.
	KindCanceler
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCallback:
		return "callback"
	case KindConnection:
		return "connection"
	case KindDestroyer:
		return "destroyer"
	case KindCloser:
		return "closer"
	case KindCanceler:
		return "canceler"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Disconnecter is an event subscription handle.
type Disconnecter interface {
	Disconnect()
}

// Destroyable is an object released with Destroy. A *Bin is Destroyable.
type Destroyable interface {
	Destroy() error
}

// Cancelable is a task that can be cancelled.
type Cancelable interface {
	Cancel()
}

// BoolCancelable is a task whose Cancel reports whether it took effect, such
// as a *future.Future.
type BoolCancelable interface {
	Cancel() bool
}

// destroyVoid and closeVoid are the forms of Destroy and Close that cannot
// fail. Of accepts them right after their error-returning forms.
type destroyVoid interface {
	Destroy()
}

type closeVoid interface {
	Close()
}

// Item is a disposable resource tagged with its cleanup capability.
// Build one with Func, FuncE, Connection, Destroyer, Closer, Canceler,
// CancelerBool or Of.
//
// The zero Item has KindNone.
type Item struct {
	kind    Kind
	value   interface{}
	release func() error
}

// Func wraps a callback that is invoked on disposal.
func Func(fn func()) Item {
	return Item{kind: KindCallback, value: fn, release: func() error {
		fn()
		return nil
	}}
}

// FuncE wraps a callback whose error is reported on disposal.
func FuncE(fn func() error) Item {
	return Item{kind: KindCallback, value: fn, release: fn}
}

// Connection wraps an event subscription that is disconnected on disposal.
func Connection(c Disconnecter) Item {
	return Item{kind: KindConnection, value: c, release: func() error {
		c.Disconnect()
		return nil
	}}
}

// Destroyer wraps an object whose Destroy method is called on disposal.
func Destroyer(d Destroyable) Item {
	return Item{kind: KindDestroyer, value: d, release: d.Destroy}
}

// Closer wraps an object whose Close method is called on disposal.
func Closer(c io.Closer) Item {
	return Item{kind: KindCloser, value: c, release: c.Close}
}

// Canceler wraps a task whose Cancel method is called on disposal.
func Canceler(c Cancelable) Item {
	return Item{kind: KindCanceler, value: c, release: func() error {
		c.Cancel()
		return nil
	}}
}

// CancelerBool wraps a task, typically a future, whose Cancel method is
// called on disposal. Whether the cancel took effect is ignored.
func CancelerBool(c BoolCancelable) Item {
	return Item{kind: KindCanceler, value: c, release: func() error {
		c.Cancel()
		return nil
	}}
}

// Of classifies v by the first capability it has, checked in this order:
// callback, connection, Destroy, Close, Cancel. Destroy and Close may return
// an error or nothing; Cancel may return nothing or a bool.
//
// An Item is returned unchanged. A nil value or a value with none of the
// capabilities yields an Item of KindNone.
//
// Example:
//
//	b.Add(bin.Of(watcher)) // *fsnotify.Watcher is a KindCloser
func Of(v interface{}) Item {
	switch x := v.(type) {
	case nil:
		return Item{}
	case Item:
		return x
	case func():
		if x == nil {
			return Item{}
		}
		return Func(x)
	case func() error:
		if x == nil {
			return Item{}
		}
		return FuncE(x)
	}

	// Named function types such as context.CancelFunc.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Func && !rv.IsNil() {
		if rt := rv.Type(); rt.NumIn() == 0 && rt.NumOut() == 0 {
			item := Func(func() { rv.Call(nil) })
			item.value = v
			return item
		}
	}

	switch x := v.(type) {
	case Disconnecter:
		return Connection(x)
	case Destroyable:
		return Destroyer(x)
	case destroyVoid:
		return Item{kind: KindDestroyer, value: v, release: func() error {
			x.Destroy()
			return nil
		}}
	case io.Closer:
		return Closer(x)
	case closeVoid:
		return Item{kind: KindCloser, value: v, release: func() error {
			x.Close()
			return nil
		}}
	case Cancelable:
		return Canceler(x)
	case BoolCancelable:
		return CancelerBool(x)
	default:
		return Item{kind: KindNone, value: v}
	}
}

// Kind returns the cleanup capability of the item.
func (i Item) Kind() Kind {
	return i.kind
}

// Value returns the wrapped resource.
func (i Item) Value() interface{} {
	return i.value
}

// IsZero reports whether the item carries no cleanup action.
func (i Item) IsZero() bool {
	return i.release == nil
}

// String implements fmt.Stringer.
func (i Item) String() string {
	return fmt.Sprintf("%s(%T)", i.kind, i.value)
}

// dispose runs the item's cleanup action exactly once per call.
// A panic inside the action is recovered and returned as a *PanicError.
func dispose(i Item) (err error) {
	if i.release == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Value: r,
				Cause: errors.Errorf("panic: %v", r),
			}
		}
	}()

	return i.release()
}
