package model

import "time"

// DueInputLayout is the editable local-datetime form of a due date, as
// rendered into edit fields and accepted from form input.
const DueInputLayout = "2006-01-02T15:04"

// DueTime is a tagged due-date value: either an explicit instant, the
// "assign the store's current time" sentinel, or nothing (no due date).
// The tag is resolved only at the persistence boundary.
type DueTime struct {
	at        time.Time
	explicit  bool
	serverNow bool
}

// DueAt returns a DueTime carrying an explicit instant.
func DueAt(t time.Time) DueTime {
	return DueTime{at: t, explicit: true}
}

// DueServerNow returns the sentinel meaning "use the store's current time".
func DueServerNow() DueTime {
	return DueTime{serverNow: true}
}

// DueNone returns the empty DueTime (no due date).
func DueNone() DueTime {
	return DueTime{}
}

func (d DueTime) IsZero() bool {
	return !d.explicit && !d.serverNow
}

// IsServerNow reports whether the value is the server-now sentinel.
func (d DueTime) IsServerNow() bool {
	return d.serverNow
}

// Instant returns the explicit instant, if one is set.
func (d DueTime) Instant() (time.Time, bool) {
	return d.at, d.explicit
}

// Resolve collapses the tag against the store's current time. Returns nil
// for the empty value.
func (d DueTime) Resolve(now time.Time) *time.Time {
	switch {
	case d.serverNow:
		t := now
		return &t
	case d.explicit:
		t := d.at
		return &t
	default:
		return nil
	}
}
