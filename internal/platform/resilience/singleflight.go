package resilience

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent calls for the same key. Unlike a bare
// singleflight.Group, a panic in fn reaches every waiter as an error.
type SingleFlight struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result was handed to more than one caller.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	return g.group.Do(key, func() (val any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				val, err = nil, fmt.Errorf("singleflight %q panicked: %v", key, rec)
			}
		}()
		return fn()
	})
}

// Forget drops an in-flight key so the next Do starts a fresh call.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}
