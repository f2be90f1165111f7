package booking

import "strings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusArchived  Status = "ARCHIVED"
)

// AllStatuses lists every lifecycle state in declaration order.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusArchived,
}

// transitions lists, for each state, the states an administrative command may move it to.
// Cancel and archive are accepted from every state, including the terminal ones.
var transitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true, StatusArchived: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusArchived: true},
	StatusCancelled: {StatusCancelled: true, StatusArchived: true},
	StatusCompleted: {StatusCancelled: true, StatusArchived: true},
	StatusArchived:  {StatusCancelled: true, StatusArchived: true},
}

// ParseStatus maps text to a Status, ignoring case.
// Any text that is not a state name yields ErrInvalidStatus.
func ParseStatus(text string) (Status, error) {
	for _, s := range AllStatuses {
		if strings.EqualFold(text, string(s)) {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsValid reports whether s is one of the five lifecycle states.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether a booking in state s may move to target.
func (s Status) CanTransitionTo(target Status) bool {
	return transitions[s][target]
}

// IsTerminal reports whether s has no outgoing transitions other than the administrative ones.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusArchived:
		return true
	case StatusPending, StatusConfirmed, StatusCompleted:
		return false
	default:
		return true
	}
}

func (s Status) String() string {
	return string(s)
}
