package sequence

import (
	"context"
	"errors"

	"github.com/trezcool/classplan/core"
)

var (
	// errors
	ErrNotFound    = errors.New("sequence not found")
	ErrNotAssigned = errors.New("session is not assigned to a sequence")
)

type (
	// Repository is the Sequence store.
	// Every method accepts an optional core.DBExecutor to run inside a caller's transaction.
	Repository interface {
		CreateSequence(ctx context.Context, seq Sequence, exec ...core.DBExecutor) (Sequence, error)
		GetSequence(ctx context.Context, id string, exec ...core.DBExecutor) (Sequence, error)
		// QuerySequences lists the sequences of a class, ordered by Order (then id).
		QuerySequences(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Sequence, error)
		CountSequences(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error)
		// NextOrder returns max(Order)+1 for the class, or 0 when it has no sequences.
		NextOrder(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error)
		// UpdateSequence saves the editable fields of `seq` (everything but ClassID, Order, Status & CreatedAt).
		UpdateSequence(ctx context.Context, seq Sequence, exec ...core.DBExecutor) (Sequence, error)
		// UpdateSequenceStatus is a no-op when the sequence does not exist.
		UpdateSequenceStatus(ctx context.Context, id string, status Status, exec ...core.DBExecutor) error
		// UpdateSequenceOrder only touches the sequence if it belongs to classID.
		UpdateSequenceOrder(ctx context.Context, classID, id string, order int, exec ...core.DBExecutor) error
		// DeleteSequence also removes the sequence's links. It is a no-op when the sequence does not exist.
		DeleteSequence(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// AssignmentRepository is the session <-> sequence link store.
	// A session holds at most one link.
	AssignmentRepository interface {
		CreateLinks(ctx context.Context, links []Link, exec ...core.DBExecutor) error
		// GetLinkBySession returns ErrNotAssigned when the session has no link.
		GetLinkBySession(ctx context.Context, sessionID string, exec ...core.DBExecutor) (Link, error)
		QueryLinksBySessionIDs(ctx context.Context, sessionIDs []string, exec ...core.DBExecutor) ([]Link, error)
		// QueryLinksBySequence lists the links of a sequence ordered by OrderInSequence.
		QueryLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) ([]Link, error)
		CountLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) (int, error)
		// CountAssignedSessions counts the distinct sessions linked to any sequence of the class.
		CountAssignedSessions(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error)
		DeleteLinkBySession(ctx context.Context, sessionID string, exec ...core.DBExecutor) error
		DeleteLinksBySessionIDs(ctx context.Context, sessionIDs []string, exec ...core.DBExecutor) error
		DeleteLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) error
	}
)
