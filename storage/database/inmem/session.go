package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/session"
)

type sessionRepository struct {
	db *DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) query(keep func(sess *session.Session) bool) []session.Session {
	sessions := make([]session.Session, 0)
	for _, sess := range repo.db.sessions {
		if keep(sess) {
			sessions = append(sessions, *sess)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Less(sessions[j]) })
	return sessions
}

func (repo *sessionRepository) CreateSession(_ context.Context, sess session.Session, _ ...core.DBExecutor) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sess.ScheduledAt = sess.ScheduledAt.UTC()
	repo.db.sessions[sess.ID] = &sess
	return sess, nil
}

func (repo *sessionRepository) GetSession(_ context.Context, id string, _ ...core.DBExecutor) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sess, ok := repo.db.sessions[id]; ok {
		return *sess, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) QuerySessions(_ context.Context, classID string, _ ...core.DBExecutor) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.query(func(sess *session.Session) bool { return sess.ClassID == classID }), nil
}

func (repo *sessionRepository) QueryUnassignedSessions(_ context.Context, classID string, _ ...core.DBExecutor) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.query(func(sess *session.Session) bool {
		_, linked := repo.db.links[sess.ID]
		return sess.ClassID == classID && !linked
	}), nil
}

func (repo *sessionRepository) QuerySessionsByID(_ context.Context, ids []string, _ ...core.DBExecutor) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sessions := make([]session.Session, 0, len(ids))
	for _, id := range ids {
		if sess, ok := repo.db.sessions[id]; ok {
			sessions = append(sessions, *sess)
		}
	}
	return sessions, nil
}

func (repo *sessionRepository) CountSessions(_ context.Context, classID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var cnt int
	for _, sess := range repo.db.sessions {
		if sess.ClassID == classID {
			cnt++
		}
	}
	return cnt, nil
}
