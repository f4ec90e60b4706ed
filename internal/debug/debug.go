// Package debug provides deduplicated diagnostics for conditions that
// would otherwise log every frame (missing cameras, headless fallbacks,
// unbound uniforms). Each distinct message is printed once per process
// until Reset is called.
package debug

import (
	"log"
	"sync"
)

var (
	mu   sync.Mutex
	seen = make(map[string]struct{})
)

// PrintOnce logs the message the first time it is seen. Subsequent calls
// with the same message are dropped.
func PrintOnce(message string) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := seen[message]; ok {
		return
	}
	seen[message] = struct{}{}
	log.Print(message)
}

// Seen reports whether the message has already been printed.
func Seen(message string) bool {
	mu.Lock()
	defer mu.Unlock()

	_, ok := seen[message]
	return ok
}

// Reset clears the dedup state. Tests call this between runs.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	seen = make(map[string]struct{})
}
