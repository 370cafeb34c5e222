package cart

import (
	"sync"
	"time"
)

// Debouncer collapses rapid successive calls keyed by line id into a single
// delayed invocation carrying only the last scheduled function. Each key is
// an independent channel; edits to different lines never coalesce.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[int]*time.Timer
}

// NewDebouncer creates a debouncer with the given delay window
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[int]*time.Timer),
	}
}

// Schedule arranges for fn to run after the delay window. Scheduling again
// under the same key before the window elapses discards the earlier fn and
// restarts the window.
func (d *Debouncer) Schedule(key int, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending invocation for key. Returns true if one was
// pending.
func (d *Debouncer) Cancel(key int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	timer, ok := d.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(d.timers, key)
	return true
}

// Stop cancels every pending invocation
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Pending reports how many keys currently have a scheduled invocation
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
