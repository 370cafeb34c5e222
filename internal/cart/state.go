package cart

// LineState tracks one cart line's position in its mutation lifecycle.
// Lines start Idle, become Pending when an optimistic edit is applied, and
// settle as Confirmed or RolledBack once the persistence call resolves. A
// full reload resets every line to Idle.
type LineState int

const (
	StateIdle LineState = iota
	StatePending
	StateConfirmed
	StateRolledBack
)

func (s LineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}
