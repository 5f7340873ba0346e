package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
)

var sessionColumns = []string{"id", "class_id", "subject", "scheduled_at", "duration", "status"}

type sessionRow struct {
	ID          string    `db:"id"`
	ClassID     string    `db:"class_id"`
	Subject     string    `db:"subject"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Duration    int       `db:"duration"`
	Status      string    `db:"status"`
}

func (row sessionRow) toSession() session.Session {
	return session.Session{
		ID:          row.ID,
		ClassID:     row.ClassID,
		Subject:     row.Subject,
		ScheduledAt: row.ScheduledAt.UTC(),
		Duration:    row.Duration,
		Status:      session.Status(row.Status),
	}
}

func toSessions(rows []sessionRow) []session.Session {
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toSession())
	}
	return sessions
}

func orderBy(ordering []core.DBOrdering) []string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return clauses
}

type sessionRepository struct {
	repository
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(exec core.DBExecutor) session.Repository {
	return &sessionRepository{repository{exec: exec}}
}

func (repo sessionRepository) selectSessions() sq.SelectBuilder {
	return sq.Select(sessionColumns...).From(sessionTable)
}

func (repo sessionRepository) CreateSession(ctx context.Context, sess session.Session, exec ...core.DBExecutor) (session.Session, error) {
	sess.ScheduledAt = sess.ScheduledAt.UTC()
	qb := sq.Insert(sessionTable).
		Columns(sessionColumns...).
		Values(sess.ID, sess.ClassID, sess.Subject, sess.ScheduledAt, sess.Duration, string(sess.Status))
	if _, err := repo.execx(ctx, repo.getExec(exec), qb); err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return sess, nil
}

func (repo sessionRepository) GetSession(ctx context.Context, id string, exec ...core.DBExecutor) (session.Session, error) {
	var row sessionRow
	if err := repo.getx(ctx, repo.getExec(exec), &row, repo.selectSessions().Where(sq.Eq{"id": id})); err != nil {
		return session.Session{}, trapNoRowsErr(err, session.ErrNotFound, "selecting session")
	}
	return row.toSession(), nil
}

func (repo sessionRepository) QuerySessions(ctx context.Context, classID string, exec ...core.DBExecutor) ([]session.Session, error) {
	var rows []sessionRow
	qb := repo.selectSessions().
		Where(sq.Eq{"class_id": classID}).
		OrderBy(orderBy(session.ByDate)...)
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, qb); err != nil {
		return nil, errors.Wrap(err, "selecting sessions")
	}
	return toSessions(rows), nil
}

func (repo sessionRepository) QueryUnassignedSessions(ctx context.Context, classID string, exec ...core.DBExecutor) ([]session.Session, error) {
	var rows []sessionRow
	qb := repo.selectSessions().
		Where(sq.Eq{"class_id": classID}).
		Where(sq.Expr("id NOT IN (SELECT session_id FROM " + linkTable + ")")).
		OrderBy(orderBy(session.ByDate)...)
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, qb); err != nil {
		return nil, errors.Wrap(err, "selecting unassigned sessions")
	}
	return toSessions(rows), nil
}

func (repo sessionRepository) QuerySessionsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]session.Session, error) {
	if len(ids) == 0 {
		return []session.Session{}, nil
	}
	var rows []sessionRow
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, repo.selectSessions().Where(sq.Eq{"id": ids})); err != nil {
		return nil, errors.Wrap(err, "selecting sessions by id")
	}
	return toSessions(rows), nil
}

func (repo sessionRepository) CountSessions(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	qb := sq.Select("COUNT(*)").From(sessionTable).Where(sq.Eq{"class_id": classID})
	return repo.count(ctx, repo.getExec(exec), qb, "counting sessions")
}
