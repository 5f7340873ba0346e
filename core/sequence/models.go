package sequence

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
)

// Statuses
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// DeriveStatus is the only rule deciding a Sequence's status: it depends solely
// on how many sessions are assigned compared to the number the Sequence requires.
func DeriveStatus(assigned, sessionCount int) Status {
	switch {
	case assigned <= 0:
		return StatusPlanned
	case assigned < sessionCount:
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// Sequence is a named, ordered unit of teaching spanning SessionCount sessions.
type Sequence struct {
	ID           string     `json:"id"`
	ClassID      string     `json:"class_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Color        string     `json:"color"`
	Order        int        `json:"order"`
	SessionCount int        `json:"session_count"`
	Theme        string     `json:"theme,omitempty"`
	Objectives   []string   `json:"objectives"`
	Resources    []string   `json:"resources"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`           // UTC
	UpdatedAt    *time.Time `json:"updated_at,omitempty"` // UTC
}

// DefaultColor is given to sequences created without a color.
const DefaultColor = "#1e88e5"

// NewSequence contains information needed to create a new Sequence.
type NewSequence struct {
	ClassID      string   `json:"class_id" validate:"required,notblank"`
	Name         string   `json:"name" validate:"required,notblank,max=120"`
	Description  string   `json:"description"`
	Color        string   `json:"color" validate:"omitempty,hexcolor"`
	SessionCount int      `json:"session_count" validate:"required,min=1"`
	Theme        string   `json:"theme"`
	Objectives   []string `json:"objectives" validate:"omitempty,dive,notblank"`
	Resources    []string `json:"resources" validate:"omitempty,dive,notblank"`
}

func (ns *NewSequence) Clean() {
	ns.ClassID = core.CleanString(ns.ClassID)
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	ns.Color = core.CleanString(ns.Color, true /* lower */)
	ns.Theme = core.CleanString(ns.Theme)
}

func (ns *NewSequence) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

// UpdateSequence defines what information may be provided to modify an existing Sequence.
// nil fields are left untouched.
type UpdateSequence struct {
	Name         *string  `json:"name" validate:"omitnil,notblank,max=120"`
	Description  *string  `json:"description"`
	Color        *string  `json:"color" validate:"omitnil,hexcolor"`
	SessionCount *int     `json:"session_count" validate:"omitnil,min=1"`
	Theme        *string  `json:"theme"`
	Objectives   []string `json:"objectives" validate:"omitempty,dive,notblank"`
	Resources    []string `json:"resources" validate:"omitempty,dive,notblank"`
}

func (us *UpdateSequence) Clean() {
	cleanPtr := func(s *string, lower ...bool) {
		if s != nil {
			*s = core.CleanString(*s, lower...)
		}
	}
	cleanPtr(us.Name)
	cleanPtr(us.Description)
	cleanPtr(us.Color, true /* lower */)
	cleanPtr(us.Theme)
}

func (us *UpdateSequence) Validate(validate *validator.Validate) error {
	us.Clean()
	return validate.Struct(us)
}

func (us UpdateSequence) IsEmpty() bool {
	return us.Name == nil && us.Description == nil && us.Color == nil && us.SessionCount == nil &&
		us.Theme == nil && us.Objectives == nil && us.Resources == nil
}

// apply copies the set fields of `us` onto `seq`.
func (us UpdateSequence) apply(seq *Sequence) {
	if us.Name != nil {
		seq.Name = *us.Name
	}
	if us.Description != nil {
		seq.Description = *us.Description
	}
	if us.Color != nil {
		seq.Color = *us.Color
	}
	if us.SessionCount != nil {
		seq.SessionCount = *us.SessionCount
	}
	if us.Theme != nil {
		seq.Theme = *us.Theme
	}
	if us.Objectives != nil {
		seq.Objectives = core.CleanStrings(us.Objectives)
	}
	if us.Resources != nil {
		seq.Resources = core.CleanStrings(us.Resources)
	}
}

// ReorderSequences is the full, ordered list of a class's sequences.
type ReorderSequences struct {
	SequenceIDs []string `json:"sequence_ids" validate:"required,unique,dive,notblank"`
}

func (rs ReorderSequences) Validate(validate *validator.Validate) error { return validate.Struct(rs) }

// AssignSessions is the ordered list of sessions a sequence should hold.
// An empty list clears the sequence.
type AssignSessions struct {
	SessionIDs []string `json:"session_ids" validate:"unique,dive,notblank"`
}

func (as AssignSessions) Validate(validate *validator.Validate) error { return validate.Struct(as) }

// Link binds one session to one sequence.
type Link struct {
	SessionID       string `json:"session_id"`
	SequenceID      string `json:"sequence_id"`
	OrderInSequence int    `json:"order_in_sequence"` // 1-based
}

// AssignedSession is a session annotated with its position inside its sequence.
type AssignedSession struct {
	session.Session
	OrderInSequence int `json:"order_in_sequence"`
}

// AssignedSequence is the sequence of a session annotated with that session's position.
type AssignedSequence struct {
	Sequence
	OrderInSequence int `json:"order_in_sequence"`
}

type ClassStatistics struct {
	TotalSequences       int `json:"total_sequences"`
	TotalSessions        int `json:"total_sessions"`
	AssignedSessions     int `json:"assigned_sessions"`
	UnassignedSessions   int `json:"unassigned_sessions"`
	CompletionPercentage int `json:"completion_percentage"`
}
