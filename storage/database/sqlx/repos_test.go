package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
	testutil "github.com/trezcool/classplan/tests"
)

func newSequence(id, classID string, order, sessionCount int) sequence.Sequence {
	return sequence.Sequence{
		ID:           id,
		ClassID:      classID,
		Name:         "Sequence " + id,
		Color:        sequence.DefaultColor,
		Order:        order,
		SessionCount: sessionCount,
		Objectives:   []string{"read", "write"},
		Status:       sequence.StatusPlanned,
		CreatedAt:    time.Date(2030, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewSessionRepository(db)
	linkRepo := NewAssignmentRepository(db)
	seqRepo := NewSequenceRepository(db)

	// created out of chronological order; s2 & s3 share a date
	s3 := testutil.CreateSession(t, repo, "c1", "s3", testutil.Date(2))
	s1 := testutil.CreateSession(t, repo, "c1", "s1", testutil.Date(1))
	s2 := testutil.CreateSession(t, repo, "c1", "s2", testutil.Date(2))
	other := testutil.CreateSession(t, repo, "c2", "s4", testutil.Date(1))

	t.Run("GetSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, s1.ID)
		require.NoError(t, err)
		assert.Equal(t, s1, got)

		_, err = repo.GetSession(ctx, "missing")
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("QuerySessions orders by date then id", func(t *testing.T) {
		got, err := repo.QuerySessions(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, testutil.SessionIDs(s1, s2, s3), testutil.SessionIDs(got...))
	})

	t.Run("CountSessions", func(t *testing.T) {
		cnt, err := repo.CountSessions(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 3, cnt)
	})

	t.Run("QuerySessionsByID", func(t *testing.T) {
		got, err := repo.QuerySessionsByID(ctx, []string{s3.ID, other.ID, "missing"})
		require.NoError(t, err)
		assert.ElementsMatch(t, testutil.SessionIDs(s3, other), testutil.SessionIDs(got...))

		got, err = repo.QuerySessionsByID(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("QueryUnassignedSessions", func(t *testing.T) {
		_, err := seqRepo.CreateSequence(ctx, newSequence("q1", "c1", 0, 2))
		require.NoError(t, err)
		require.NoError(t, linkRepo.CreateLinks(ctx, []sequence.Link{{SessionID: s2.ID, SequenceID: "q1", OrderInSequence: 1}}))

		got, err := repo.QueryUnassignedSessions(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, testutil.SessionIDs(s1, s3), testutil.SessionIDs(got...))
	})
}

func TestSequenceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewSequenceRepository(db)
	linkRepo := NewAssignmentRepository(db)
	sessRepo := NewSessionRepository(db)

	t.Run("NextOrder of an empty class", func(t *testing.T) {
		order, err := repo.NextOrder(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 0, order)
	})

	seqB, err := repo.CreateSequence(ctx, newSequence("b", "c1", 0, 2))
	require.NoError(t, err)
	seqA, err := repo.CreateSequence(ctx, newSequence("a", "c1", 1, 3))
	require.NoError(t, err)
	_, err = repo.CreateSequence(ctx, newSequence("z", "c2", 0, 1))
	require.NoError(t, err)

	t.Run("GetSequence", func(t *testing.T) {
		got, err := repo.GetSequence(ctx, seqA.ID)
		require.NoError(t, err)
		assert.Equal(t, seqA, got)
		assert.Equal(t, []string{"read", "write"}, got.Objectives)
		assert.Equal(t, []string{}, got.Resources)
		assert.Nil(t, got.UpdatedAt)

		_, err = repo.GetSequence(ctx, "missing")
		assert.Equal(t, sequence.ErrNotFound, err)
	})

	t.Run("QuerySequences orders by order", func(t *testing.T) {
		got, err := repo.QuerySequences(ctx, "c1")
		require.NoError(t, err)
		if assert.Len(t, got, 2) {
			assert.Equal(t, seqB.ID, got[0].ID)
			assert.Equal(t, seqA.ID, got[1].ID)
		}

		cnt, err := repo.CountSequences(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, cnt)

		order, err := repo.NextOrder(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, order)
	})

	t.Run("UpdateSequence", func(t *testing.T) {
		now := time.Date(2030, time.February, 1, 9, 0, 0, 0, time.UTC)
		seq := seqA
		seq.Name = "Renamed"
		seq.Theme = "Poetry"
		seq.Resources = []string{"book"}
		seq.UpdatedAt = &now
		seq.Order = 99                        // not editable
		seq.Status = sequence.StatusCompleted // not editable

		got, err := repo.UpdateSequence(ctx, seq)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "Poetry", got.Theme)
		assert.Equal(t, []string{"book"}, got.Resources)
		assert.Equal(t, seqA.Order, got.Order)
		assert.Equal(t, sequence.StatusPlanned, got.Status)
		if assert.NotNil(t, got.UpdatedAt) {
			assert.True(t, now.Equal(*got.UpdatedAt))
		}

		_, err = repo.UpdateSequence(ctx, newSequence("missing", "c1", 0, 1))
		assert.Equal(t, sequence.ErrNotFound, err)
	})

	t.Run("UpdateSequenceStatus", func(t *testing.T) {
		require.NoError(t, repo.UpdateSequenceStatus(ctx, seqB.ID, sequence.StatusInProgress))
		got, err := repo.GetSequence(ctx, seqB.ID)
		require.NoError(t, err)
		assert.Equal(t, sequence.StatusInProgress, got.Status)

		assert.NoError(t, repo.UpdateSequenceStatus(ctx, "missing", sequence.StatusCompleted))
	})

	t.Run("UpdateSequenceOrder is scoped to the class", func(t *testing.T) {
		require.NoError(t, repo.UpdateSequenceOrder(ctx, "c2", seqB.ID, 7))
		got, err := repo.GetSequence(ctx, seqB.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Order)

		require.NoError(t, repo.UpdateSequenceOrder(ctx, "c1", seqB.ID, 7))
		got, err = repo.GetSequence(ctx, seqB.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Order)
	})

	t.Run("DeleteSequence removes its links", func(t *testing.T) {
		sess := testutil.CreateSession(t, sessRepo, "c1", "s1", testutil.Date(1))
		require.NoError(t, linkRepo.CreateLinks(ctx, []sequence.Link{{SessionID: sess.ID, SequenceID: seqA.ID, OrderInSequence: 1}}))

		require.NoError(t, repo.DeleteSequence(ctx, seqA.ID))
		_, err := repo.GetSequence(ctx, seqA.ID)
		assert.Equal(t, sequence.ErrNotFound, err)
		_, err = linkRepo.GetLinkBySession(ctx, sess.ID)
		assert.Equal(t, sequence.ErrNotAssigned, err)

		// the session itself is kept
		_, err = sessRepo.GetSession(ctx, sess.ID)
		assert.NoError(t, err)

		assert.NoError(t, repo.DeleteSequence(ctx, "missing"))
	})
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewAssignmentRepository(db)
	seqRepo := NewSequenceRepository(db)
	sessRepo := NewSessionRepository(db)

	s1 := testutil.CreateSession(t, sessRepo, "c1", "s1", testutil.Date(1))
	s2 := testutil.CreateSession(t, sessRepo, "c1", "s2", testutil.Date(2))
	s3 := testutil.CreateSession(t, sessRepo, "c1", "s3", testutil.Date(3))
	for _, seq := range []sequence.Sequence{newSequence("q1", "c1", 0, 2), newSequence("q2", "c1", 1, 2)} {
		_, err := seqRepo.CreateSequence(ctx, seq)
		require.NoError(t, err)
	}

	require.NoError(t, repo.CreateLinks(ctx, []sequence.Link{
		{SessionID: s3.ID, SequenceID: "q1", OrderInSequence: 1},
		{SessionID: s1.ID, SequenceID: "q1", OrderInSequence: 2},
		{SessionID: s2.ID, SequenceID: "q2", OrderInSequence: 1},
	}))
	require.NoError(t, repo.CreateLinks(ctx, nil))

	t.Run("a session holds one link", func(t *testing.T) {
		err := repo.CreateLinks(ctx, []sequence.Link{{SessionID: s1.ID, SequenceID: "q2", OrderInSequence: 2}})
		assert.Error(t, err)
	})

	t.Run("GetLinkBySession", func(t *testing.T) {
		got, err := repo.GetLinkBySession(ctx, s1.ID)
		require.NoError(t, err)
		assert.Equal(t, sequence.Link{SessionID: s1.ID, SequenceID: "q1", OrderInSequence: 2}, got)

		_, err = repo.GetLinkBySession(ctx, "missing")
		assert.Equal(t, sequence.ErrNotAssigned, err)
	})

	t.Run("QueryLinksBySequence orders by position", func(t *testing.T) {
		got, err := repo.QueryLinksBySequence(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, []sequence.Link{
			{SessionID: s3.ID, SequenceID: "q1", OrderInSequence: 1},
			{SessionID: s1.ID, SequenceID: "q1", OrderInSequence: 2},
		}, got)

		cnt, err := repo.CountLinksBySequence(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, 2, cnt)
	})

	t.Run("QueryLinksBySessionIDs", func(t *testing.T) {
		got, err := repo.QueryLinksBySessionIDs(ctx, []string{s1.ID, s2.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("CountAssignedSessions", func(t *testing.T) {
		cnt, err := repo.CountAssignedSessions(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 3, cnt)

		cnt, err = repo.CountAssignedSessions(ctx, "c2")
		require.NoError(t, err)
		assert.Equal(t, 0, cnt)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteLinkBySession(ctx, s3.ID))
		cnt, err := repo.CountLinksBySequence(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)

		require.NoError(t, repo.DeleteLinksBySessionIDs(ctx, []string{s2.ID}))
		cnt, err = repo.CountLinksBySequence(ctx, "q2")
		require.NoError(t, err)
		assert.Equal(t, 0, cnt)

		require.NoError(t, repo.DeleteLinksBySequence(ctx, "q1"))
		cnt, err = repo.CountAssignedSessions(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 0, cnt)
	})
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want stringList
	}{
		{name: "null", src: nil, want: nil},
		{name: "empty", src: "", want: nil},
		{name: "text", src: `["a","b"]`, want: stringList{"a", "b"}},
		{name: "bytes", src: []byte(`["a"]`), want: stringList{"a"}},
		{name: "empty array", src: "[]", want: stringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sl stringList
			require.NoError(t, sl.Scan(tt.src))
			assert.Equal(t, tt.want, sl)
		})
	}

	var sl stringList
	assert.Error(t, sl.Scan(42))

	val, err := stringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
}
