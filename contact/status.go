// Package contact turns the raw per-tick contact events reported by a physics
// host into an Enter/Stay/Exit state per entity pair and exposes an
// edge-triggered "a new collision happened" query.
package contact

// Status is the lifecycle state of a single contact record.
type Status uint8

const (
	// Entering marks a contact that started this tick with a strong impulse.
	Entering Status = iota
	// Continuing marks a weak or sustained contact.
	Continuing
	// Ending marks a contact that was observed and has not been refreshed since.
	Ending
)

// DefaultThreshold is the impulse above which a first contact counts as new.
const DefaultThreshold = 0.6

func (s Status) String() string {
	switch s {
	case Entering:
		return "Entering"
	case Continuing:
		return "Continuing"
	case Ending:
		return "Ending"
	default:
		return "Unknown"
	}
}

// Classify maps an impulse magnitude to the status a fresh record starts in.
func Classify(impulse, threshold float64) Status {
	if impulse > threshold {
		return Entering
	}
	return Continuing
}

// Event is one raw contact between A and B reported by the physics host.
type Event[K comparable] struct {
	A       K
	B       K
	Impulse float64
}
