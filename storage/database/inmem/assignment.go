package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
)

type assignmentRepository struct {
	db *DB
}

var _ sequence.AssignmentRepository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) sequence.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateLinks(_ context.Context, links []sequence.Link, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// all or nothing, like the foreign keys of the SQL store
	for _, link := range links {
		if _, ok := repo.db.sequences[link.SequenceID]; !ok {
			return errors.Wrapf(sequence.ErrNotFound, "creating link to sequence %q", link.SequenceID)
		}
		if _, ok := repo.db.sessions[link.SessionID]; !ok {
			return errors.Wrapf(session.ErrNotFound, "creating link of session %q", link.SessionID)
		}
	}
	for _, link := range links {
		l := link
		repo.db.links[l.SessionID] = &l
	}
	return nil
}

func (repo *assignmentRepository) GetLinkBySession(_ context.Context, sessionID string, _ ...core.DBExecutor) (sequence.Link, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if link, ok := repo.db.links[sessionID]; ok {
		return *link, nil
	}
	return sequence.Link{}, sequence.ErrNotAssigned
}

func (repo *assignmentRepository) QueryLinksBySessionIDs(_ context.Context, sessionIDs []string, _ ...core.DBExecutor) ([]sequence.Link, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	links := make([]sequence.Link, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		if link, ok := repo.db.links[id]; ok {
			links = append(links, *link)
		}
	}
	return links, nil
}

func (repo *assignmentRepository) QueryLinksBySequence(_ context.Context, sequenceID string, _ ...core.DBExecutor) ([]sequence.Link, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	links := make([]sequence.Link, 0)
	for _, link := range repo.db.links {
		if link.SequenceID == sequenceID {
			links = append(links, *link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].OrderInSequence < links[j].OrderInSequence })
	return links, nil
}

func (repo *assignmentRepository) CountLinksBySequence(_ context.Context, sequenceID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var cnt int
	for _, link := range repo.db.links {
		if link.SequenceID == sequenceID {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *assignmentRepository) CountAssignedSessions(_ context.Context, classID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// links are keyed by session, so each session counts once
	var cnt int
	for sessID, link := range repo.db.links {
		_, sessOK := repo.db.sessions[sessID]
		seq, seqOK := repo.db.sequences[link.SequenceID]
		if sessOK && seqOK && seq.ClassID == classID {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *assignmentRepository) DeleteLinkBySession(_ context.Context, sessionID string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.links, sessionID)
	return nil
}

func (repo *assignmentRepository) DeleteLinksBySessionIDs(_ context.Context, sessionIDs []string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range sessionIDs {
		delete(repo.db.links, id)
	}
	return nil
}

func (repo *assignmentRepository) DeleteLinksBySequence(_ context.Context, sequenceID string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for sessID, link := range repo.db.links {
		if link.SequenceID == sequenceID {
			delete(repo.db.links, sessID)
		}
	}
	return nil
}
