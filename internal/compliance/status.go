// Package compliance derives calibration compliance status from an
// equipment record's date pair. Classification is a pure function of the
// dates and the current time; it is never stored, so the dashboard, the
// registry listing and evidence filtering all see the same bucket for a
// record at any given instant.
package compliance

import "time"

// Status is the derived compliance category of an equipment record.
type Status string

const (
	StatusCurrent      Status = "current"
	StatusExpiringSoon Status = "expiring_soon"
	StatusOverdue      Status = "overdue"
	StatusNoData       Status = "no_data"
)

// ExpiringSoonWindow is how far ahead of the due date a record counts as
// expiring. Fixed policy, not per-tenant configuration.
const ExpiringSoonWindow = 60 * 24 * time.Hour

// Classify maps a record's dates to exactly one status.
//
// Boundary rule: a due date exactly at now is already overdue (the past
// side is inclusive, the future side exclusive), and a due date exactly
// at now+60d is still expiring_soon. A record with no last-calibration
// date has no schedule to judge and is no_data; the same holds for a
// record missing its derived next-due date.
func Classify(now time.Time, lastCal, nextDue *time.Time) Status {
	if lastCal == nil || nextDue == nil {
		return StatusNoData
	}
	if !nextDue.After(now) {
		return StatusOverdue
	}
	if !nextDue.After(now.Add(ExpiringSoonWindow)) {
		return StatusExpiringSoon
	}
	return StatusCurrent
}

// Counts is a per-status tally of a set of equipment records.
type Counts struct {
	Current      int `json:"current"`
	ExpiringSoon int `json:"expiring_soon"`
	Overdue      int `json:"overdue"`
	NoData       int `json:"no_data"`
}

// Add tallies one classified record.
func (c *Counts) Add(s Status) {
	switch s {
	case StatusCurrent:
		c.Current++
	case StatusExpiringSoon:
		c.ExpiringSoon++
	case StatusOverdue:
		c.Overdue++
	case StatusNoData:
		c.NoData++
	}
}

// Total returns the number of records tallied.
func (c Counts) Total() int {
	return c.Current + c.ExpiringSoon + c.Overdue + c.NoData
}
