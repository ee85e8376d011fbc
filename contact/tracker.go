package contact

import (
	"errors"
	"fmt"

	"github.com/kamstrup/intmap"
)

// ErrAlreadyAdvanced is returned by Tracker.Advance when a handle is advanced
// twice within one tick.
var ErrAlreadyAdvanced = errors.New("contact list already advanced this tick")

type trackedList[K comparable] struct {
	list       List[K]
	advancedAt uint64
}

// Tracker owns the contact lists of many entities keyed by an integer handle.
// It is not safe for concurrent use; callers run the collect phase and the
// query phase of a tick one after the other.
type Tracker[K intmap.IntKey] struct {
	lists     *intmap.Map[K, *trackedList[K]]
	threshold float64
	tick      uint64
}

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerOptions)

type trackerOptions struct {
	threshold float64
	capacity  int
}

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold float64) TrackerOption {
	return func(o *trackerOptions) {
		o.threshold = threshold
	}
}

// WithCapacity pre-sizes the handle map.
func WithCapacity(capacity int) TrackerOption {
	return func(o *trackerOptions) {
		o.capacity = capacity
	}
}

// NewTracker creates an empty tracker.
func NewTracker[K intmap.IntKey](opts ...TrackerOption) *Tracker[K] {
	o := trackerOptions{
		threshold: DefaultThreshold,
		capacity:  64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tracker[K]{
		lists:     intmap.New[K, *trackedList[K]](o.capacity),
		threshold: o.threshold,
		tick:      1,
	}
}

// Threshold returns the impulse threshold used to classify new contacts.
func (t *Tracker[K]) Threshold() float64 {
	return t.threshold
}

// Track creates an empty list for self. Tracking an already tracked handle
// keeps its records.
func (t *Tracker[K]) Track(self K) {
	if _, ok := t.lists.Get(self); ok {
		return
	}
	t.lists.Put(self, &trackedList[K]{})
}

// Untrack destroys the list for self.
func (t *Tracker[K]) Untrack(self K) {
	t.lists.Del(self)
}

// Tracked reports whether self has a list.
func (t *Tracker[K]) Tracked(self K) bool {
	_, ok := t.lists.Get(self)
	return ok
}

// Len returns the number of tracked handles.
func (t *Tracker[K]) Len() int {
	return t.lists.Len()
}

// Records returns a copy of the records held for self.
func (t *Tracker[K]) Records(self K) []Record[K] {
	tl, ok := t.lists.Get(self)
	if !ok {
		return nil
	}
	return tl.list.Records()
}

// RecordContact registers a contact of self with other. Unknown self is ignored.
func (t *Tracker[K]) RecordContact(self, other K, impulse float64) {
	tl, ok := t.lists.Get(self)
	if !ok {
		return
	}
	tl.list.Record(other, impulse, t.threshold)
}

// Ingest records both sides of every event.
func (t *Tracker[K]) Ingest(events []Event[K]) {
	for _, ev := range events {
		status := Classify(ev.Impulse, t.threshold)
		if tl, ok := t.lists.Get(ev.A); ok {
			tl.list.RecordStatus(ev.B, status)
		}
		if tl, ok := t.lists.Get(ev.B); ok {
			tl.list.RecordStatus(ev.A, status)
		}
	}
}

// HasNewCollisionsAndAdvance reports whether self registered a new contact
// since the previous call and ages its records. Unknown self returns false.
func (t *Tracker[K]) HasNewCollisionsAndAdvance(self K) bool {
	tl, ok := t.lists.Get(self)
	if !ok {
		return false
	}
	tl.advancedAt = t.tick
	return tl.list.Advance()
}

// BeginTick starts a new tick for the Advance guard.
func (t *Tracker[K]) BeginTick() uint64 {
	t.tick++
	return t.tick
}

// Tick returns the current tick number.
func (t *Tracker[K]) Tick() uint64 {
	return t.tick
}

// Advance is HasNewCollisionsAndAdvance with a once-per-tick guard. A second
// call for the same handle before BeginTick leaves the list untouched and
// returns ErrAlreadyAdvanced.
func (t *Tracker[K]) Advance(self K) (bool, error) {
	tl, ok := t.lists.Get(self)
	if !ok {
		return false, nil
	}
	if tl.advancedAt == t.tick {
		return false, fmt.Errorf("handle %d at tick %d: %w", self, t.tick, ErrAlreadyAdvanced)
	}
	tl.advancedAt = t.tick
	return tl.list.Advance(), nil
}

// Reset untracks every handle.
func (t *Tracker[K]) Reset() {
	t.lists.Clear()
}
