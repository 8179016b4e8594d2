package autosave

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle window after the last edit before a save
// fires. Mirrors the editor's 2-second autosave delay.
const DefaultDebounce = 2 * time.Second

// SaveFunc persists one content snapshot. It is called with the draft as it
// was when the save was admitted; any binding to a document id or context
// belongs in the closure.
type SaveFunc func(content string) error

// Controller bridges a live editing draft to the document store without
// writing on every keystroke. Each editing session owns one Controller; the
// pending-save timer is an explicit handle canceled on Close, never shared
// global state.
//
// Policy: every Changed call restarts the debounce timer. At most one save
// is in flight at a time; a trigger that arrives while a save is running is
// dropped, not queued (last-write-wins at the application layer). SaveNow
// bypasses the timer but still honors the in-flight guard. A failed save is
// reported through the error handler and does not revert the draft.
type Controller struct {
	mu        sync.Mutex
	save      SaveFunc
	debounce  time.Duration
	timer     *time.Timer
	content   string
	inFlight  bool
	lastSaved time.Time
	onError   func(error)
	closed    bool
}

// New creates a Controller. A non-positive debounce falls back to
// DefaultDebounce.
func New(save SaveFunc, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{save: save, debounce: debounce}
}

// OnError installs a handler invoked (outside the controller lock) whenever
// a save attempt fails.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// Seed sets the draft without scheduling a save. Sessions attaching to an
// existing document seed its stored content so a save issued before any edit
// persists that content instead of an empty draft.
func (c *Controller) Seed(content string) {
	c.mu.Lock()
	c.content = content
	c.mu.Unlock()
}

// Changed records the latest draft and restarts the pending-save timer.
func (c *Controller) Changed(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.content = content
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.SaveNow() })
}

// SaveNow persists the current draft immediately, canceling any pending
// timer. It returns false when the request was dropped because another save
// is already running or the controller is closed.
func (c *Controller) SaveNow() bool {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.closed || c.inFlight {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	content := c.content
	c.mu.Unlock()

	err := c.save(content)

	c.mu.Lock()
	c.inFlight = false
	if err == nil {
		c.lastSaved = time.Now()
	}
	handler := c.onError
	c.mu.Unlock()

	if err != nil && handler != nil {
		handler(err)
	}
	return err == nil
}

// LastSaved returns the time of the last successful save; the zero time
// means nothing has been persisted yet.
func (c *Controller) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// Close cancels the pending timer and refuses further saves. In-flight
// saves finish on their own.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
