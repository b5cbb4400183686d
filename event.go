package lsjam

import "math"

// EventKind tags the variant carried by Event. Modeled as a tagged
// union rather than a small class hierarchy (spec.md §9's "a
// tagged-variant Event eliminates the source's virtual-dispatch
// hierarchy"), so a single switch in the composite processor selects
// behavior instead of runtime polymorphism.
type EventKind int

const (
	Move EventKind = iota
	Collision
	WallTransfer
	NeighborTransfer
	VoronoiTransfer
	VoronoiInscribedSphereTransfer
)

func (k EventKind) String() string {
	switch k {
	case Move:
		return "Move"
	case Collision:
		return "Collision"
	case WallTransfer:
		return "WallTransfer"
	case NeighborTransfer:
		return "NeighborTransfer"
	case VoronoiTransfer:
		return "VoronoiTransfer"
	case VoronoiInscribedSphereTransfer:
		return "VoronoiInscribedSphereTransfer"
	default:
		return "Unknown"
	}
}

// InvalidIndex marks an absent neighbor/wall index on an Event.
const InvalidIndex = -1

// Event is the tagged record from spec.md §3: {kind, time, i, j, wall}.
type Event struct {
	Kind     EventKind
	Time     float64
	Particle int
	Neighbor int // only meaningful for Collision; otherwise InvalidIndex
	Wall     int // only meaningful for *Transfer events; otherwise InvalidIndex
}

// InvalidEvent is the Flyweight sentinel: it compares as later than
// any valid event and is the zero-ish state every particle starts in.
var InvalidEvent = Event{
	Kind:     Move,
	Time:     math.Inf(1),
	Particle: InvalidIndex,
	Neighbor: InvalidIndex,
	Wall:     InvalidIndex,
}

// eventLess is the order the indexed heap sorts by: invalid events
// last and equivalent to each other, valid events by ascending time,
// ties broken by particle index so that runs are reproducible for a
// fixed seed (spec.md §4.1).
func eventLess(a, b Event) bool {
	aInvalid := math.IsInf(a.Time, 1)
	bInvalid := math.IsInf(b.Time, 1)
	if aInvalid || bInvalid {
		return !aInvalid
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Particle < b.Particle
}
