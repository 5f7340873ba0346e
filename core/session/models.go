package session

import (
	"time"

	"github.com/trezcool/classplan/core"
)

// Statuses
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session is one scheduled lesson of a class.
type Session struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	Subject     string    `json:"subject"`
	ScheduledAt time.Time `json:"scheduled_at"` // UTC
	Duration    int       `json:"duration"`     // minutes
	Status      Status    `json:"status"`
}

// NewSession contains information needed to schedule a new Session.
type NewSession struct {
	ClassID     string    `json:"class_id" validate:"required,notblank"`
	Subject     string    `json:"subject" validate:"required,notblank"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Duration    int       `json:"duration" validate:"min=0"`
}

func (ns *NewSession) Clean() {
	ns.ClassID = core.CleanString(ns.ClassID)
	ns.Subject = core.CleanString(ns.Subject)
	ns.ScheduledAt = ns.ScheduledAt.UTC()
}

// DefaultDuration is used when a NewSession has no duration.
const DefaultDuration = 55

// ByDate is the canonical chronological ordering: date first, id as tie-breaker.
var ByDate = []core.DBOrdering{
	{Field: "scheduled_at", Ascending: true},
	{Field: "id", Ascending: true},
}

// Less reports whether `s` comes before `other` in ByDate ordering.
func (s Session) Less(other Session) bool {
	if !s.ScheduledAt.Equal(other.ScheduledAt) {
		return s.ScheduledAt.Before(other.ScheduledAt)
	}
	return s.ID < other.ID
}
