package sequence

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
)

var nowFunc = time.Now // mockable

// Service is the sequence assignment engine. It is the only writer of Sequence.Status.
type Service struct {
	db       core.DB // optional; when set, every mutating operation runs in a transaction
	repo     Repository
	linkRepo AssignmentRepository
	sessRepo session.Repository
	logger   core.Logger
	locks    *classLocker
}

func NewService(
	db core.DB,
	repo Repository,
	linkRepo AssignmentRepository,
	sessRepo session.Repository,
	logger core.Logger,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		linkRepo: linkRepo,
		sessRepo: sessRepo,
		logger:   logger,
		locks:    newClassLocker(),
	}
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func isNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// classOf returns the lock key of a sequence: its class, or its own id if it does not exist.
func (svc *Service) classOf(ctx context.Context, sequenceID string) (string, error) {
	seq, err := svc.repo.GetSequence(ctx, sequenceID)
	if err != nil {
		if isNotFound(err) {
			return sequenceID, nil
		}
		return "", err
	}
	return seq.ClassID, nil
}

// Create adds a new planned Sequence after the last one of its class. `ns` is expected to be validated.
func (svc *Service) Create(ctx context.Context, ns NewSequence) (Sequence, error) {
	unlock := svc.locks.lock(ns.ClassID)
	defer unlock()

	var seq Sequence
	err := core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		order, err := svc.repo.NextOrder(ctx, ns.ClassID, exec)
		if err != nil {
			return err
		}
		color := ns.Color
		if color == "" {
			color = DefaultColor
		}
		seq, err = svc.repo.CreateSequence(ctx, Sequence{
			ID:           uuid.New().String(),
			ClassID:      ns.ClassID,
			Name:         ns.Name,
			Description:  ns.Description,
			Color:        color,
			Order:        order,
			SessionCount: ns.SessionCount,
			Theme:        ns.Theme,
			Objectives:   nonNil(core.CleanStrings(ns.Objectives)),
			Resources:    nonNil(core.CleanStrings(ns.Resources)),
			Status:       StatusPlanned,
			CreatedAt:    nowFunc().UTC(),
		}, exec)
		return err
	})
	if err != nil {
		return Sequence{}, errors.Wrap(err, "creating sequence")
	}
	return seq, nil
}

func (svc *Service) QueryByClass(ctx context.Context, classID string) ([]Sequence, error) {
	return svc.repo.QuerySequences(ctx, classID)
}

func (svc *Service) Get(ctx context.Context, id string) (Sequence, error) {
	return svc.repo.GetSequence(ctx, id)
}

// Update applies the set fields of `us`. A new SessionCount re-derives the status.
func (svc *Service) Update(ctx context.Context, id string, us UpdateSequence) (Sequence, error) {
	classID, err := svc.classOf(ctx, id)
	if err != nil {
		return Sequence{}, err
	}
	unlock := svc.locks.lock(classID)
	defer unlock()

	var seq Sequence
	err = core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		if seq, err = svc.repo.GetSequence(ctx, id, exec); err != nil {
			return err
		}
		origCount := seq.SessionCount
		us.apply(&seq)
		now := nowFunc().UTC()
		seq.UpdatedAt = &now
		if seq, err = svc.repo.UpdateSequence(ctx, seq, exec); err != nil {
			return err
		}
		if seq.SessionCount != origCount {
			if err = svc.recomputeStatus(ctx, exec, id); err != nil {
				return err
			}
			seq, err = svc.repo.GetSequence(ctx, id, exec)
		}
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return Sequence{}, ErrNotFound
		}
		return Sequence{}, errors.Wrap(err, "updating sequence")
	}
	return seq, nil
}

// Delete removes a sequence and its links; the freed sessions become unassigned.
func (svc *Service) Delete(ctx context.Context, id string) error {
	classID, err := svc.classOf(ctx, id)
	if err != nil {
		return err
	}
	unlock := svc.locks.lock(classID)
	defer unlock()

	return core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		return svc.repo.DeleteSequence(ctx, id, exec)
	})
}

// AssignSessions makes `sessionIDs` the exact, ordered set of sessions held by the sequence:
// the sessions are detached from any other sequence, the sequence's previous sessions are
// released, and links are created with OrderInSequence 1, 2, 3... in input order.
// An empty list clears the sequence.
func (svc *Service) AssignSessions(ctx context.Context, sequenceID string, sessionIDs []string) error {
	classID, err := svc.classOf(ctx, sequenceID)
	if err != nil {
		return err
	}
	unlock := svc.locks.lock(classID)
	defer unlock()

	return core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		return svc.assign(ctx, exec, sequenceID, sessionIDs)
	})
}

func (svc *Service) assign(ctx context.Context, exec core.DBExecutor, sequenceID string, sessionIDs []string) error {
	// sequences losing sessions to this one need their status re-derived too
	var formerSeqIDs []string
	if len(sessionIDs) > 0 {
		links, err := svc.linkRepo.QueryLinksBySessionIDs(ctx, sessionIDs, exec)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(links))
		for _, link := range links {
			if link.SequenceID != sequenceID && !seen[link.SequenceID] {
				seen[link.SequenceID] = true
				formerSeqIDs = append(formerSeqIDs, link.SequenceID)
			}
		}
		if err = svc.linkRepo.DeleteLinksBySessionIDs(ctx, sessionIDs, exec); err != nil {
			return err
		}
	}
	if err := svc.linkRepo.DeleteLinksBySequence(ctx, sequenceID, exec); err != nil {
		return err
	}

	if len(sessionIDs) > 0 {
		links := make([]Link, 0, len(sessionIDs))
		for i, id := range sessionIDs {
			links = append(links, Link{SessionID: id, SequenceID: sequenceID, OrderInSequence: i + 1})
		}
		if err := svc.linkRepo.CreateLinks(ctx, links, exec); err != nil {
			return err
		}
	}

	if err := svc.recomputeStatus(ctx, exec, sequenceID); err != nil {
		return err
	}
	for _, id := range formerSeqIDs {
		if err := svc.recomputeStatus(ctx, exec, id); err != nil {
			return err
		}
	}
	return nil
}

// UnassignSession detaches a session from its sequence, if any.
func (svc *Service) UnassignSession(ctx context.Context, sessionID string) error {
	link, err := svc.linkRepo.GetLinkBySession(ctx, sessionID)
	if err != nil {
		if errors.Cause(err) == ErrNotAssigned {
			return nil
		}
		return err
	}
	classID, err := svc.classOf(ctx, link.SequenceID)
	if err != nil {
		return err
	}
	unlock := svc.locks.lock(classID)
	defer unlock()

	return core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		// the link may have moved while waiting for the lock
		link, err := svc.linkRepo.GetLinkBySession(ctx, sessionID, exec)
		if err != nil {
			if errors.Cause(err) == ErrNotAssigned {
				return nil
			}
			return err
		}
		if err = svc.linkRepo.DeleteLinkBySession(ctx, sessionID, exec); err != nil {
			return err
		}
		return svc.recomputeStatus(ctx, exec, link.SequenceID)
	})
}

// recomputeStatus is the single write path of Sequence.Status.
// It is a no-op for a sequence that no longer exists.
func (svc *Service) recomputeStatus(ctx context.Context, exec core.DBExecutor, sequenceID string) error {
	seq, err := svc.repo.GetSequence(ctx, sequenceID, exec)
	if err != nil {
		if isNotFound(err) {
			svc.logger.Debug(fmt.Sprintf("recomputing status: sequence %q not found, skipping", sequenceID))
			return nil
		}
		return err
	}
	assigned, err := svc.linkRepo.CountLinksBySequence(ctx, sequenceID, exec)
	if err != nil {
		return err
	}
	return svc.repo.UpdateSequenceStatus(ctx, sequenceID, DeriveStatus(assigned, seq.SessionCount), exec)
}

// Reorder persists order = index for every id of `sequenceIDs` that belongs to the class.
// Callers should pass the class's complete list; missing sequences keep their order.
func (svc *Service) Reorder(ctx context.Context, classID string, sequenceIDs []string) error {
	unlock := svc.locks.lock(classID)
	defer unlock()

	return core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		for i, id := range sequenceIDs {
			if err := svc.repo.UpdateSequenceOrder(ctx, classID, id, i, exec); err != nil {
				return err
			}
		}
		return nil
	})
}

// AutoAssign fills the class's sequences, in order, with its unassigned sessions, earliest first.
// Each sequence only receives what it still misses (SessionCount minus the sessions it already
// holds) before the next one is served, so a partly filled sequence is topped up rather than
// handed SessionCount new sessions. Sequences left without sessions keep what they already hold.
func (svc *Service) AutoAssign(ctx context.Context, classID string) ([]Allocation, error) {
	unlock := svc.locks.lock(classID)
	defer unlock()

	var allocs []Allocation
	err := core.WithTx(ctx, svc.db, func(exec core.DBExecutor) error {
		seqs, err := svc.repo.QuerySequences(ctx, classID, exec)
		if err != nil {
			return err
		}
		sessions, err := svc.sessRepo.QueryUnassignedSessions(ctx, classID, exec)
		if err != nil {
			return err
		}

		held := make(map[string][]string, len(seqs))
		needs := make([]Need, 0, len(seqs))
		for _, seq := range seqs {
			links, err := svc.linkRepo.QueryLinksBySequence(ctx, seq.ID, exec)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(links))
			for _, link := range links {
				ids = append(ids, link.SessionID)
			}
			held[seq.ID] = ids
			needs = append(needs, Need{SequenceID: seq.ID, Count: seq.SessionCount - len(ids)})
		}
		pool := make([]string, 0, len(sessions))
		for _, sess := range sessions {
			pool = append(pool, sess.ID)
		}

		allocs = Plan(needs, pool)
		for _, alloc := range allocs {
			ids := append(held[alloc.SequenceID], alloc.SessionIDs...)
			if err = svc.assign(ctx, exec, alloc.SequenceID, ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "auto-assigning sessions")
	}

	var assigned int
	for _, alloc := range allocs {
		assigned += len(alloc.SessionIDs)
	}
	svc.logger.Info(fmt.Sprintf("auto-assign: class %q: %d sessions assigned to %d sequences", classID, assigned, len(allocs)))
	return allocs, nil
}

// ClassStatistics summarises how much of a class's session pool is assigned to its sequences.
func (svc *Service) ClassStatistics(ctx context.Context, classID string) (ClassStatistics, error) {
	var stats ClassStatistics
	var err error

	if stats.TotalSequences, err = svc.repo.CountSequences(ctx, classID); err != nil {
		return ClassStatistics{}, err
	}
	if stats.TotalSessions, err = svc.sessRepo.CountSessions(ctx, classID); err != nil {
		return ClassStatistics{}, err
	}
	if stats.AssignedSessions, err = svc.linkRepo.CountAssignedSessions(ctx, classID); err != nil {
		return ClassStatistics{}, err
	}
	stats.UnassignedSessions = stats.TotalSessions - stats.AssignedSessions
	if stats.TotalSessions > 0 {
		stats.CompletionPercentage = int(math.Round(float64(stats.AssignedSessions) / float64(stats.TotalSessions) * 100))
	}
	return stats, nil
}

// SessionsBySequence lists a sequence's sessions ordered by OrderInSequence.
func (svc *Service) SessionsBySequence(ctx context.Context, sequenceID string) ([]AssignedSession, error) {
	links, err := svc.linkRepo.QueryLinksBySequence(ctx, sequenceID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []AssignedSession{}, nil
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.SessionID)
	}
	sessions, err := svc.sessRepo.QuerySessionsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]session.Session, len(sessions))
	for _, sess := range sessions {
		byID[sess.ID] = sess
	}

	assigned := make([]AssignedSession, 0, len(links))
	for _, link := range links {
		if sess, ok := byID[link.SessionID]; ok {
			assigned = append(assigned, AssignedSession{Session: sess, OrderInSequence: link.OrderInSequence})
		}
	}
	return assigned, nil
}

// SequenceBySession returns the sequence a session is assigned to, or ErrNotAssigned.
func (svc *Service) SequenceBySession(ctx context.Context, sessionID string) (AssignedSequence, error) {
	link, err := svc.linkRepo.GetLinkBySession(ctx, sessionID)
	if err != nil {
		return AssignedSequence{}, err
	}
	seq, err := svc.repo.GetSequence(ctx, link.SequenceID)
	if err != nil {
		if isNotFound(err) {
			return AssignedSequence{}, ErrNotAssigned
		}
		return AssignedSequence{}, err
	}
	return AssignedSequence{Sequence: seq, OrderInSequence: link.OrderInSequence}, nil
}
