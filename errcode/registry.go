package errcode

import (
	"fmt"
	"sync"
)

// Registry detects two error kinds claiming the same code.
type Registry struct {
	mu    sync.RWMutex
	codes map[int]string
}

var globalRegistry = &Registry{codes: make(map[int]string)}

// Register records err in the global registry and returns it, so sentinels can be
// declared as `var ErrX = errcode.Register(errcode.New(...))`.
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Register panics when code is already bound to a different module:msgKey.
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := err.Module() + ":" + err.MsgKey()
	if existing, ok := r.codes[err.Code()]; ok && existing != key {
		panic(fmt.Sprintf("error code conflict: %d is registered as %s, cannot register as %s",
			err.Code(), existing, key))
	}
	r.codes[err.Code()] = key
	return err
}

// Count returns the number of registered codes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// RegisteredCodes returns a copy of the global registry.
func RegisteredCodes() map[int]string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	out := make(map[int]string, len(globalRegistry.codes))
	for k, v := range globalRegistry.codes {
		out[k] = v
	}
	return out
}
