package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
)

var linkColumns = []string{"session_id", "sequence_id", "order_in_sequence"}

type linkRow struct {
	SessionID       string `db:"session_id"`
	SequenceID      string `db:"sequence_id"`
	OrderInSequence int    `db:"order_in_sequence"`
}

func toLinks(rows []linkRow) []sequence.Link {
	links := make([]sequence.Link, 0, len(rows))
	for _, row := range rows {
		links = append(links, sequence.Link(row))
	}
	return links
}

type assignmentRepository struct {
	repository
}

var _ sequence.AssignmentRepository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) sequence.AssignmentRepository {
	return &assignmentRepository{repository{exec: exec}}
}

func (repo assignmentRepository) selectLinks() sq.SelectBuilder {
	return sq.Select(linkColumns...).From(linkTable)
}

func (repo assignmentRepository) CreateLinks(ctx context.Context, links []sequence.Link, exec ...core.DBExecutor) error {
	if len(links) == 0 {
		return nil
	}
	qb := sq.Insert(linkTable).Columns(linkColumns...)
	for _, link := range links {
		qb = qb.Values(link.SessionID, link.SequenceID, link.OrderInSequence)
	}
	if _, err := repo.execx(ctx, repo.getExec(exec), qb); err != nil {
		return errors.Wrap(err, "inserting links")
	}
	return nil
}

func (repo assignmentRepository) GetLinkBySession(ctx context.Context, sessionID string, exec ...core.DBExecutor) (sequence.Link, error) {
	var row linkRow
	if err := repo.getx(ctx, repo.getExec(exec), &row, repo.selectLinks().Where(sq.Eq{"session_id": sessionID})); err != nil {
		return sequence.Link{}, trapNoRowsErr(err, sequence.ErrNotAssigned, "selecting link")
	}
	return sequence.Link(row), nil
}

func (repo assignmentRepository) QueryLinksBySessionIDs(ctx context.Context, sessionIDs []string, exec ...core.DBExecutor) ([]sequence.Link, error) {
	if len(sessionIDs) == 0 {
		return []sequence.Link{}, nil
	}
	var rows []linkRow
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, repo.selectLinks().Where(sq.Eq{"session_id": sessionIDs})); err != nil {
		return nil, errors.Wrap(err, "selecting links by session")
	}
	return toLinks(rows), nil
}

func (repo assignmentRepository) QueryLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) ([]sequence.Link, error) {
	var rows []linkRow
	qb := repo.selectLinks().
		Where(sq.Eq{"sequence_id": sequenceID}).
		OrderBy("order_in_sequence ASC")
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, qb); err != nil {
		return nil, errors.Wrap(err, "selecting links by sequence")
	}
	return toLinks(rows), nil
}

func (repo assignmentRepository) CountLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) (int, error) {
	qb := sq.Select("COUNT(*)").From(linkTable).Where(sq.Eq{"sequence_id": sequenceID})
	return repo.count(ctx, repo.getExec(exec), qb, "counting sequence links")
}

func (repo assignmentRepository) CountAssignedSessions(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	qb := sq.Select("COUNT(DISTINCT l.session_id)").
		From(linkTable + " l").
		Join(sequenceTable + " seq ON seq.id = l.sequence_id").
		Join(sessionTable + " sess ON sess.id = l.session_id").
		Where(sq.Eq{"seq.class_id": classID})
	return repo.count(ctx, repo.getExec(exec), qb, "counting assigned sessions")
}

func (repo assignmentRepository) DeleteLinkBySession(ctx context.Context, sessionID string, exec ...core.DBExecutor) error {
	if _, err := repo.execx(ctx, repo.getExec(exec), sq.Delete(linkTable).Where(sq.Eq{"session_id": sessionID})); err != nil {
		return errors.Wrap(err, "deleting link")
	}
	return nil
}

func (repo assignmentRepository) DeleteLinksBySessionIDs(ctx context.Context, sessionIDs []string, exec ...core.DBExecutor) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	if _, err := repo.execx(ctx, repo.getExec(exec), sq.Delete(linkTable).Where(sq.Eq{"session_id": sessionIDs})); err != nil {
		return errors.Wrap(err, "deleting links by session")
	}
	return nil
}

func (repo assignmentRepository) DeleteLinksBySequence(ctx context.Context, sequenceID string, exec ...core.DBExecutor) error {
	if _, err := repo.execx(ctx, repo.getExec(exec), sq.Delete(linkTable).Where(sq.Eq{"sequence_id": sequenceID})); err != nil {
		return errors.Wrap(err, "deleting links by sequence")
	}
	return nil
}
