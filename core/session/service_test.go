package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
	inmemdb "github.com/trezcool/classplan/storage/database/inmem"
	testutil "github.com/trezcool/classplan/tests"
)

func newService() *session.Service {
	return session.NewService(inmemdb.NewSessionRepository(inmemdb.Open()))
}

func TestNewSession_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	tests := []struct {
		name      string
		ns        session.NewSession
		wantField string
	}{
		{name: "valid", ns: session.NewSession{ClassID: " c1 ", Subject: "Grammar", ScheduledAt: testutil.Date(1)}},
		{name: "blank class", ns: session.NewSession{ClassID: "  ", Subject: "Grammar", ScheduledAt: testutil.Date(1)}, wantField: "ClassID"},
		{name: "missing subject", ns: session.NewSession{ClassID: "c1", ScheduledAt: testutil.Date(1)}, wantField: "Subject"},
		{name: "missing date", ns: session.NewSession{ClassID: "c1", Subject: "Grammar"}, wantField: "ScheduledAt"},
		{name: "negative duration", ns: session.NewSession{ClassID: "c1", Subject: "Grammar", ScheduledAt: testutil.Date(1), Duration: -1}, wantField: "Duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "c1", tt.ns.ClassID)
				return
			}
			var verrs validator.ValidationErrors
			if assert.True(t, errors.As(err, &verrs), "error = %v", err) {
				assert.Equal(t, tt.wantField, verrs[0].StructField())
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	kinshasa := time.FixedZone("WAT", 60*60)

	tests := []struct {
		name         string
		ns           session.NewSession
		wantDuration int
	}{
		{
			name:         "default duration",
			ns:           session.NewSession{ClassID: "c1", Subject: "Grammar", ScheduledAt: testutil.Date(1)},
			wantDuration: session.DefaultDuration,
		},
		{
			name:         "explicit duration",
			ns:           session.NewSession{ClassID: "c1", Subject: "Poetry", ScheduledAt: testutil.Date(2).In(kinshasa), Duration: 90},
			wantDuration: 90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Create(ctx, tt.ns)
			require.NoError(t, err)
			assert.NotEmpty(t, sess.ID)
			assert.Equal(t, tt.wantDuration, sess.Duration)
			assert.Equal(t, session.StatusPlanned, sess.Status)
			assert.Equal(t, time.UTC, sess.ScheduledAt.Location())
			assert.True(t, tt.ns.ScheduledAt.Equal(sess.ScheduledAt))

			got, err := svc.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, sess, got)
		})
	}
}

func TestService_queries(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	late, err := svc.Create(ctx, session.NewSession{ClassID: "c1", Subject: "late", ScheduledAt: testutil.Date(3)})
	require.NoError(t, err)
	early, err := svc.Create(ctx, session.NewSession{ClassID: "c1", Subject: "early", ScheduledAt: testutil.Date(1)})
	require.NoError(t, err)
	other, err := svc.Create(ctx, session.NewSession{ClassID: "c2", Subject: "other", ScheduledAt: testutil.Date(2)})
	require.NoError(t, err)

	t.Run("by class, chronologically", func(t *testing.T) {
		sessions, err := svc.QueryByClass(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, []string{early.ID, late.ID}, testutil.SessionIDs(sessions...))
	})

	t.Run("unknown class", func(t *testing.T) {
		sessions, err := svc.QueryByClass(ctx, "lol")
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})

	t.Run("by ids skips unknown ones", func(t *testing.T) {
		sessions, err := svc.QueryByIDs(ctx, []string{other.ID, "lol"})
		require.NoError(t, err)
		assert.Equal(t, []string{other.ID}, testutil.SessionIDs(sessions...))
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := svc.Get(ctx, "lol")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}
