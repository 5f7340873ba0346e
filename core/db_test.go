package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classplan/core"
	testutil "github.com/trezcool/classplan/tests"
)

func countSessions(t *testing.T, exec core.DBExecutor) int {
	var cnt int
	require.NoError(t, exec.QueryRowxContext(context.Background(), "SELECT COUNT(*) FROM sessions").Scan(&cnt))
	return cnt
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	insert := func(exec core.DBExecutor, id string) error {
		_, err := exec.ExecContext(
			ctx,
			"INSERT INTO sessions (id, class_id, scheduled_at) VALUES (?, ?, ?)",
			id, "c1", testutil.Date(1),
		)
		return err
	}

	t.Run("nil db", func(t *testing.T) {
		called := false
		err := core.WithTx(ctx, nil, func(exec core.DBExecutor) error {
			called = true
			assert.Nil(t, exec)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("commit", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		err := core.WithTx(ctx, db, func(exec core.DBExecutor) error {
			return insert(exec, "s1")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, countSessions(t, db))
	})

	t.Run("rollback", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		errBoom := errors.New("boom")
		err := core.WithTx(ctx, db, func(exec core.DBExecutor) error {
			require.NoError(t, insert(exec, "s1"))
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 0, countSessions(t, db))
	})

	t.Run("closed db asks for shutdown", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		require.NoError(t, db.Close())

		err := core.WithTx(ctx, db, func(exec core.DBExecutor) error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.True(t, core.IsShutdown(err), "error = %v", err)
	})
}
