package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
)

type sequenceRepository struct {
	db *DB
}

var _ sequence.Repository = (*sequenceRepository)(nil) // interface compliance check

func NewSequenceRepository(db *DB) sequence.Repository {
	return &sequenceRepository{db: db}
}

func cloneSequence(seq *sequence.Sequence) sequence.Sequence {
	cp := *seq
	cp.Objectives = copyStrings(seq.Objectives)
	cp.Resources = copyStrings(seq.Resources)
	if seq.UpdatedAt != nil {
		t := *seq.UpdatedAt
		cp.UpdatedAt = &t
	}
	return cp
}

func (repo *sequenceRepository) CreateSequence(_ context.Context, seq sequence.Sequence, _ ...core.DBExecutor) (sequence.Sequence, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := cloneSequence(&seq)
	repo.db.sequences[seq.ID] = &stored
	return cloneSequence(&stored), nil
}

func (repo *sequenceRepository) GetSequence(_ context.Context, id string, _ ...core.DBExecutor) (sequence.Sequence, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if seq, ok := repo.db.sequences[id]; ok {
		return cloneSequence(seq), nil
	}
	return sequence.Sequence{}, sequence.ErrNotFound
}

func (repo *sequenceRepository) QuerySequences(_ context.Context, classID string, _ ...core.DBExecutor) ([]sequence.Sequence, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	seqs := make([]sequence.Sequence, 0)
	for _, seq := range repo.db.sequences {
		if seq.ClassID == classID {
			seqs = append(seqs, cloneSequence(seq))
		}
	}
	sort.Slice(seqs, func(i, j int) bool {
		if seqs[i].Order != seqs[j].Order {
			return seqs[i].Order < seqs[j].Order
		}
		return seqs[i].ID < seqs[j].ID
	})
	return seqs, nil
}

func (repo *sequenceRepository) CountSequences(_ context.Context, classID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var cnt int
	for _, seq := range repo.db.sequences {
		if seq.ClassID == classID {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *sequenceRepository) NextOrder(_ context.Context, classID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	next := 0
	for _, seq := range repo.db.sequences {
		if seq.ClassID == classID && seq.Order >= next {
			next = seq.Order + 1
		}
	}
	return next, nil
}

func (repo *sequenceRepository) UpdateSequence(_ context.Context, seq sequence.Sequence, _ ...core.DBExecutor) (sequence.Sequence, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save editable fields
	orig, ok := repo.db.sequences[seq.ID]
	if !ok {
		return sequence.Sequence{}, sequence.ErrNotFound
	}
	orig.Name = seq.Name
	orig.Description = seq.Description
	orig.Color = seq.Color
	orig.SessionCount = seq.SessionCount
	orig.Theme = seq.Theme
	orig.Objectives = copyStrings(seq.Objectives)
	orig.Resources = copyStrings(seq.Resources)
	if seq.UpdatedAt != nil {
		t := seq.UpdatedAt.UTC()
		orig.UpdatedAt = &t
	}
	return cloneSequence(orig), nil
}

func (repo *sequenceRepository) UpdateSequenceStatus(_ context.Context, id string, status sequence.Status, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if seq, ok := repo.db.sequences[id]; ok {
		seq.Status = status
	}
	return nil
}

func (repo *sequenceRepository) UpdateSequenceOrder(_ context.Context, classID, id string, order int, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if seq, ok := repo.db.sequences[id]; ok && seq.ClassID == classID {
		seq.Order = order
	}
	return nil
}

func (repo *sequenceRepository) DeleteSequence(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.sequences, id)
	// ON DELETE CASCADE
	for sessID, link := range repo.db.links {
		if link.SequenceID == id {
			delete(repo.db.links, sessID)
		}
	}
	return nil
}
