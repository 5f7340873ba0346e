package session

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

// Create schedules a new planned Session. `ns` is expected to be validated.
func (svc *Service) Create(ctx context.Context, ns NewSession) (Session, error) {
	duration := ns.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	return svc.repo.CreateSession(ctx, Session{
		ID:          uuid.New().String(),
		ClassID:     ns.ClassID,
		Subject:     ns.Subject,
		ScheduledAt: ns.ScheduledAt.UTC(),
		Duration:    duration,
		Status:      StatusPlanned,
	})
}

func (svc *Service) QueryByClass(ctx context.Context, classID string) ([]Session, error) {
	return svc.repo.QuerySessions(ctx, classID)
}

func (svc *Service) Get(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSession(ctx, id)
}

// QueryByIDs returns the existing sessions among `ids`, in no particular order.
func (svc *Service) QueryByIDs(ctx context.Context, ids []string) ([]Session, error) {
	return svc.repo.QuerySessionsByID(ctx, ids)
}
