package models

// MessageRecord is the stored state of one message text within a channel.
// The text itself is the identity and lives in the enclosing map key.
type MessageRecord struct {
	Position  float64 `json:"position"`  // sends of this text so far
	Velocity  float64 `json:"velocity"`  // signed score change per hour, [-10, 10]
	Timestamp int64   `json:"timestamp"` // Unix ms of the last commit
}

// Newer reports whether r should replace other under last-writer-by-time.
// Equal timestamps fall back to the higher position, then the higher
// velocity, so the outcome does not depend on arrival order.
func (r MessageRecord) Newer(other MessageRecord) bool {
	if r.Timestamp != other.Timestamp {
		return r.Timestamp > other.Timestamp
	}
	if r.Position != other.Position {
		return r.Position > other.Position
	}
	return r.Velocity >= other.Velocity
}
