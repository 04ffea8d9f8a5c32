// Package notify publishes collection change events so interested clients
// can refresh their snapshots when bookings, drive logs or overtime
// applications are mutated. Publishing is fire-and-forget: a broker outage
// never fails the originating request.
package notify

// Actions carried in change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent describes one mutation of a stored record.
type ChangeEvent struct {
	Action string      `json:"action"`
	ID     string      `json:"id"`
	Data   interface{} `json:"data,omitempty"`
}

// Publisher emits change events for a named collection.
type Publisher interface {
	Publish(collection string, event ChangeEvent)
	Close()
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(collection string, event ChangeEvent) {}
func (NopPublisher) Close()                                       {}
