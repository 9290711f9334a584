package form

import (
	"sync"
	"time"
)

// LookupFunc resolves a query into a category symbol. The boolean reports
// whether any suggestion was found.
type LookupFunc func(query string) (string, bool, error)

// ApplyFunc receives the category symbol of a lookup that survived the
// debounce window.
type ApplyFunc func(category string)

// Autofill debounces the SettleUp category lookup behind the payee text
// input. Every query change bumps a generation counter; a lookup's result is
// applied only if its generation is still current when it completes, so a
// superseded in-flight lookup is discarded rather than clobbering a newer
// one. Lookup failures apply nothing.
type Autofill struct {
	mu         sync.Mutex
	generation uint64
	timer      *time.Timer

	delay  time.Duration
	lookup LookupFunc
	apply  ApplyFunc
}

// NewAutofill wires a debounced lookup to an apply callback.
func NewAutofill(delay time.Duration, lookup LookupFunc, apply ApplyFunc) *Autofill {
	return &Autofill{delay: delay, lookup: lookup, apply: apply}
}

// QueryChanged schedules a lookup for query after the debounce delay,
// cancelling any pending one. An empty query only cancels.
func (a *Autofill) QueryChanged(query string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if query == "" {
		return
	}

	generation := a.generation
	a.timer = time.AfterFunc(a.delay, func() {
		a.run(generation, query)
	})
}

// Stop cancels any pending lookup and invalidates in-flight ones.
func (a *Autofill) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autofill) run(generation uint64, query string) {
	category, found, err := a.lookup(query)

	a.mu.Lock()
	stale := generation != a.generation
	a.mu.Unlock()
	if stale || err != nil || !found {
		return
	}
	a.apply(category)
}
