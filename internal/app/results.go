package service

import (
	"sync"

	"github.com/okian/birdie/internal/domain/model"
)

// resultLog remembers the most recent edits in a ring.
type resultLog struct {
	mu    sync.RWMutex
	byID  map[string]model.EditStatus
	order []string
	next  int
}

func newResultLog(size int) *resultLog {
	return &resultLog{byID: make(map[string]model.EditStatus, size), order: make([]string, size)}
}

func (l *resultLog) put(st model.EditStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byID[st.ID]; ok {
		l.byID[st.ID] = st
		return
	}
	if old := l.order[l.next]; old != "" {
		delete(l.byID, old)
	}
	l.order[l.next] = st.ID
	l.next = (l.next + 1) % len(l.order)
	l.byID[st.ID] = st
}

func (l *resultLog) get(id string) (model.EditStatus, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, ok := l.byID[id]
	return st, ok
}
