package bin

import (
	"fmt"
	"sync/atomic"

	"github.com/taskcluster/slugid-go/slugid"
)

// KeyGenerator produces keys for items added without an explicit key.
// Every call must return a key that is unique within the process.
type KeyGenerator func() string

// SlugKeys generates URL-safe random slug ids. It is the default generator.
func SlugKeys() string {
	return slugid.Nice()
}

// SequentialKeys returns a generator yielding prefix-1, prefix-2, ...
// It is deterministic, which makes it convenient in tests.
func SequentialKeys(prefix string) KeyGenerator {
	var n uint64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddUint64(&n, 1))
	}
}
