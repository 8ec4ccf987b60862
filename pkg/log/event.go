package log

import "time"

// Event represents a HomeWeb event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"2,keyasint"`

	// Path is the request or registration path, if any.
	Path string `cbor:"3,keyasint,omitempty"`

	// Target is the relative target of the node involved, if any.
	Target string `cbor:"4,keyasint,omitempty"`

	// Status is the HTTP status of a served request.
	Status int `cbor:"5,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port) for request events.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Detail carries event-specific free-form text.
	Detail string `cbor:"7,keyasint,omitempty"`

	// Error is the error message for error events.
	Error string `cbor:"8,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryRequest indicates an inbound request served by the dispatcher.
	CategoryRequest Category = 0
	// CategoryRegistration indicates a path registration on the dispatcher.
	CategoryRegistration Category = 1
	// CategoryDiscovery indicates an announcement state change.
	CategoryDiscovery Category = 2
	// CategoryTick indicates a tree work tick.
	CategoryTick Category = 3
	// CategoryError indicates an error at any layer.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRequest:
		return "REQUEST"
	case CategoryRegistration:
		return "REGISTRATION"
	case CategoryDiscovery:
		return "DISCOVERY"
	case CategoryTick:
		return "TICK"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// NewEvent creates an event of the given category with the current time.
func NewEvent(category Category) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  category,
	}
}
