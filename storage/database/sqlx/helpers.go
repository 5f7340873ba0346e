package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
)

// Tables
const (
	sessionTable  = "sessions"
	sequenceTable = "sequences"
	linkTable     = "session_sequences"
)

type repository struct {
	exec core.DBExecutor
}

// getExec returns the caller's executor (usually a transaction) or the repository's own.
func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo repository) selectx(ctx context.Context, exec core.DBExecutor, dest interface{}, qb sq.Sqlizer) error {
	query, args, err := qb.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.SelectContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func (repo repository) getx(ctx context.Context, exec core.DBExecutor, dest interface{}, qb sq.Sqlizer) error {
	query, args, err := qb.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.GetContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func (repo repository) execx(ctx context.Context, exec core.DBExecutor, qb sq.Sqlizer) (sql.Result, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	return exec.ExecContext(ctx, exec.Rebind(query), args...)
}

func (repo repository) count(ctx context.Context, exec core.DBExecutor, qb sq.SelectBuilder, msg string) (int, error) {
	var cnt int
	if err := repo.getx(ctx, exec, &cnt, qb); err != nil {
		return 0, errors.Wrap(err, msg)
	}
	return cnt, nil
}

// trapNoRowsErr maps the "no rows" err to `notFound`
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// stringList is a []string stored as a JSON array in a TEXT column.
type stringList []string

var (
	_ sql.Scanner   = (*stringList)(nil)
	_ driver.Valuer = stringList(nil)
)

func (sl stringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(sl))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (sl *stringList) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*sl = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("stringList: cannot scan %T", src)
	}
	if len(b) == 0 {
		*sl = nil
		return nil
	}
	return json.Unmarshal(b, (*[]string)(sl))
}
