package models

// Status represents a user's relationship to a content item
type Status string

const (
	StatusNone       Status = "none"
	StatusReading    Status = "reading"
	StatusPlanToRead Status = "plan_to_read"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusDropped    Status = "dropped"
	StatusRemoved    Status = "removed" // soft delete, written to the remote store only
)

// KnownStatuses lists every status a client may set directly.
// StatusRemoved is excluded: it is only reachable through an explicit remove action.
var KnownStatuses = []Status{
	StatusNone,
	StatusReading,
	StatusPlanToRead,
	StatusCompleted,
	StatusOnHold,
	StatusDropped,
}

// IsSettable reports whether a client may write this status directly
func (s Status) IsSettable() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}
