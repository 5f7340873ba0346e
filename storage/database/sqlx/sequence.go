package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
)

var sequenceColumns = []string{
	"id", "class_id", "name", "description", "color", "display_order", "session_count",
	"theme", "objectives", "resources", "status", "created_at", "updated_at",
}

type sequenceRow struct {
	ID           string      `db:"id"`
	ClassID      string      `db:"class_id"`
	Name         string      `db:"name"`
	Description  null.String `db:"description"`
	Color        string      `db:"color"`
	Order        int         `db:"display_order"`
	SessionCount int         `db:"session_count"`
	Theme        null.String `db:"theme"`
	Objectives   stringList  `db:"objectives"`
	Resources    stringList  `db:"resources"`
	Status       string      `db:"status"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
}

func newSequenceRow(seq sequence.Sequence) sequenceRow {
	row := sequenceRow{
		ID:           seq.ID,
		ClassID:      seq.ClassID,
		Name:         seq.Name,
		Description:  null.NewString(seq.Description, seq.Description != ""),
		Color:        seq.Color,
		Order:        seq.Order,
		SessionCount: seq.SessionCount,
		Theme:        null.NewString(seq.Theme, seq.Theme != ""),
		Objectives:   stringList(seq.Objectives),
		Resources:    stringList(seq.Resources),
		Status:       string(seq.Status),
		CreatedAt:    seq.CreatedAt.UTC(),
	}
	if seq.UpdatedAt != nil {
		row.UpdatedAt = null.TimeFrom(seq.UpdatedAt.UTC())
	}
	return row
}

func (row sequenceRow) toSequence() sequence.Sequence {
	seq := sequence.Sequence{
		ID:           row.ID,
		ClassID:      row.ClassID,
		Name:         row.Name,
		Description:  row.Description.String,
		Color:        row.Color,
		Order:        row.Order,
		SessionCount: row.SessionCount,
		Theme:        row.Theme.String,
		Objectives:   []string(row.Objectives),
		Resources:    []string(row.Resources),
		Status:       sequence.Status(row.Status),
		CreatedAt:    row.CreatedAt.UTC(),
	}
	if seq.Objectives == nil {
		seq.Objectives = []string{}
	}
	if seq.Resources == nil {
		seq.Resources = []string{}
	}
	if row.UpdatedAt.Valid {
		updatedAt := row.UpdatedAt.Time.UTC()
		seq.UpdatedAt = &updatedAt
	}
	return seq
}

type sequenceRepository struct {
	repository
}

var _ sequence.Repository = (*sequenceRepository)(nil) // interface compliance check

func NewSequenceRepository(exec core.DBExecutor) sequence.Repository {
	return &sequenceRepository{repository{exec: exec}}
}

func (repo sequenceRepository) selectSequences() sq.SelectBuilder {
	return sq.Select(sequenceColumns...).From(sequenceTable)
}

func (repo sequenceRepository) CreateSequence(ctx context.Context, seq sequence.Sequence, exec ...core.DBExecutor) (sequence.Sequence, error) {
	row := newSequenceRow(seq)
	qb := sq.Insert(sequenceTable).
		Columns(sequenceColumns...).
		Values(
			row.ID, row.ClassID, row.Name, row.Description, row.Color, row.Order, row.SessionCount,
			row.Theme, row.Objectives, row.Resources, row.Status, row.CreatedAt, row.UpdatedAt,
		)
	if _, err := repo.execx(ctx, repo.getExec(exec), qb); err != nil {
		return sequence.Sequence{}, errors.Wrap(err, "inserting sequence")
	}
	return row.toSequence(), nil
}

func (repo sequenceRepository) GetSequence(ctx context.Context, id string, exec ...core.DBExecutor) (sequence.Sequence, error) {
	var row sequenceRow
	if err := repo.getx(ctx, repo.getExec(exec), &row, repo.selectSequences().Where(sq.Eq{"id": id})); err != nil {
		return sequence.Sequence{}, trapNoRowsErr(err, sequence.ErrNotFound, "selecting sequence")
	}
	return row.toSequence(), nil
}

func (repo sequenceRepository) QuerySequences(ctx context.Context, classID string, exec ...core.DBExecutor) ([]sequence.Sequence, error) {
	var rows []sequenceRow
	qb := repo.selectSequences().
		Where(sq.Eq{"class_id": classID}).
		OrderBy("display_order ASC", "id ASC")
	if err := repo.selectx(ctx, repo.getExec(exec), &rows, qb); err != nil {
		return nil, errors.Wrap(err, "selecting sequences")
	}

	seqs := make([]sequence.Sequence, 0, len(rows))
	for _, row := range rows {
		seqs = append(seqs, row.toSequence())
	}
	return seqs, nil
}

func (repo sequenceRepository) CountSequences(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	qb := sq.Select("COUNT(*)").From(sequenceTable).Where(sq.Eq{"class_id": classID})
	return repo.count(ctx, repo.getExec(exec), qb, "counting sequences")
}

func (repo sequenceRepository) NextOrder(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	qb := sq.Select("COALESCE(MAX(display_order) + 1, 0)").From(sequenceTable).Where(sq.Eq{"class_id": classID})
	return repo.count(ctx, repo.getExec(exec), qb, "selecting next sequence order")
}

func (repo sequenceRepository) UpdateSequence(ctx context.Context, seq sequence.Sequence, exec ...core.DBExecutor) (sequence.Sequence, error) {
	ex := repo.getExec(exec)
	row := newSequenceRow(seq)
	qb := sq.Update(sequenceTable).
		SetMap(map[string]interface{}{
			"name":          row.Name,
			"description":   row.Description,
			"color":         row.Color,
			"session_count": row.SessionCount,
			"theme":         row.Theme,
			"objectives":    row.Objectives,
			"resources":     row.Resources,
			"updated_at":    row.UpdatedAt,
		}).
		Where(sq.Eq{"id": seq.ID})

	res, err := repo.execx(ctx, ex, qb)
	if err != nil {
		return sequence.Sequence{}, errors.Wrap(err, "updating sequence")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sequence.Sequence{}, sequence.ErrNotFound
	}
	return repo.GetSequence(ctx, seq.ID, ex)
}

func (repo sequenceRepository) UpdateSequenceStatus(ctx context.Context, id string, status sequence.Status, exec ...core.DBExecutor) error {
	qb := sq.Update(sequenceTable).Set("status", string(status)).Where(sq.Eq{"id": id})
	if _, err := repo.execx(ctx, repo.getExec(exec), qb); err != nil {
		return errors.Wrap(err, "updating sequence status")
	}
	return nil
}

func (repo sequenceRepository) UpdateSequenceOrder(ctx context.Context, classID, id string, order int, exec ...core.DBExecutor) error {
	qb := sq.Update(sequenceTable).
		Set("display_order", order).
		Where(sq.Eq{"id": id, "class_id": classID})
	if _, err := repo.execx(ctx, repo.getExec(exec), qb); err != nil {
		return errors.Wrap(err, "updating sequence order")
	}
	return nil
}

func (repo sequenceRepository) DeleteSequence(ctx context.Context, id string, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)

	// sqlite only cascades when foreign keys are enabled on the connection
	if _, err := repo.execx(ctx, ex, sq.Delete(linkTable).Where(sq.Eq{"sequence_id": id})); err != nil {
		return errors.Wrap(err, "deleting sequence links")
	}
	if _, err := repo.execx(ctx, ex, sq.Delete(sequenceTable).Where(sq.Eq{"id": id})); err != nil {
		return errors.Wrap(err, "deleting sequence")
	}
	return nil
}
