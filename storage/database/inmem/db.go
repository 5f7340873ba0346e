package inmemdb

import (
	"sync"

	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
)

// DB is an in-memory stand-in for the SQL database.
// All tables share one lock so that cascades stay atomic.
type DB struct {
	mutex     sync.RWMutex
	sessions  map[string]*session.Session
	sequences map[string]*sequence.Sequence
	links     map[string]*sequence.Link // {sessionID: link}
}

func Open() *DB {
	return &DB{
		sessions:  make(map[string]*session.Session),
		sequences: make(map[string]*sequence.Sequence),
		links:     make(map[string]*sequence.Link),
	}
}

func copyStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	cp := make([]string, len(ss))
	copy(cp, ss)
	return cp
}
