package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
	"github.com/trezcool/classplan/storage/database"
)

// Date returns the UTC time of day `day` of March 2030 at 08:00, plus `hours`.
func Date(day int, hours ...int) time.Time {
	t := time.Date(2030, time.March, day, 8, 0, 0, 0, time.UTC)
	if len(hours) > 0 {
		t = t.Add(time.Duration(hours[0]) * time.Hour)
	}
	return t
}

// PrepareDB opens & migrates a fresh sqlite database in a temp dir. It is closed at the end of the test.
func PrepareDB(t *testing.T, engine ...string) *sqlx.DB {
	t.Helper()

	conf := &core.Config{
		TestMode: true,
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "classplan_test.db"),
		},
	}
	if len(engine) > 0 {
		conf.Database.Engine = engine[0]
	}

	db, err := database.Open(conf)
	require.NoError(t, err, "opening database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db), "migrating database")
	return db
}

func CreateSession(t *testing.T, repo session.Repository, classID, subject string, scheduledAt time.Time) session.Session {
	t.Helper()

	sess, err := repo.CreateSession(context.Background(), session.Session{
		ID:          subject + "-" + classID,
		ClassID:     classID,
		Subject:     subject,
		ScheduledAt: scheduledAt,
		Duration:    session.DefaultDuration,
		Status:      session.StatusPlanned,
	})
	require.NoError(t, err, "createSession()")
	return sess
}

func CreateSequence(t *testing.T, svc *sequence.Service, classID, name string, sessionCount int) sequence.Sequence {
	t.Helper()

	seq, err := svc.Create(context.Background(), sequence.NewSequence{
		ClassID:      classID,
		Name:         name,
		SessionCount: sessionCount,
	})
	require.NoError(t, err, "createSequence()")
	return seq
}

// SessionIDs returns the ids of `sessions`, in order.
func SessionIDs(sessions ...session.Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	return ids
}
