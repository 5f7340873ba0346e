package session

import (
	"context"
	"errors"

	"github.com/trezcool/classplan/core"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")
)

// Repository is the Session store.
// Every method accepts an optional core.DBExecutor to run inside a caller's transaction.
type Repository interface {
	CreateSession(ctx context.Context, sess Session, exec ...core.DBExecutor) (Session, error)
	GetSession(ctx context.Context, id string, exec ...core.DBExecutor) (Session, error)
	// QuerySessions lists the sessions of a class, ordered by date then id.
	QuerySessions(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Session, error)
	// QueryUnassignedSessions lists the sessions of a class that are not linked to any sequence, ordered by date then id.
	QueryUnassignedSessions(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Session, error)
	// QuerySessionsByID returns the sessions with the given ids, in no particular order.
	QuerySessionsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]Session, error)
	CountSessions(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error)
}
