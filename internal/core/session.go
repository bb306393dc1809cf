package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one user's work on one uploaded workbook. The Table is
// immutable; the column selection, order, comment column and output name
// change with each interaction.
type Session struct {
	ID        string
	FileName  string
	Sheet     string
	Sheets    []string
	Table     *Table
	CreatedAt time.Time

	mu         sync.Mutex
	selected   []string
	order      *ColumnOrder
	comment    string
	outputName string
	lastAccess time.Time
}

// newSession wraps a decoded workbook.
func newSession(fileName string, wb *Workbook, outputName string, now time.Time) *Session {
	return &Session{
		ID:         uuid.New().String(),
		FileName:   fileName,
		Sheet:      wb.Sheet,
		Sheets:     wb.Sheets,
		Table:      wb.Table,
		CreatedAt:  now,
		order:      NewColumnOrder(nil),
		outputName: outputName,
		lastAccess: now,
	}
}

// SessionView is a read-only snapshot of a session for rendering.
type SessionView struct {
	ID          string   `json:"id"`
	FileName    string   `json:"file_name"`
	Sheet       string   `json:"sheet"`
	RowCount    int      `json:"row_count"`
	Columns     []string `json:"columns"`
	Selected    []string `json:"selected"`
	Order       []string `json:"order"`
	Cursor      string   `json:"cursor,omitempty"`
	CanMoveUp   bool     `json:"can_move_up"`
	CanMoveDown bool     `json:"can_move_down"`
	Comment     string   `json:"comment,omitempty"`
	OutputName  string   `json:"output_name"`
}

// view must be called with s.mu held.
func (s *Session) view() *SessionView {
	selected := make([]string, len(s.selected))
	copy(selected, s.selected)

	cursor := s.order.Cursor()
	return &SessionView{
		ID:          s.ID,
		FileName:    s.FileName,
		Sheet:       s.Sheet,
		RowCount:    s.Table.RowCount(),
		Columns:     s.Table.ColumnNames(),
		Selected:    selected,
		Order:       s.order.Columns(),
		Cursor:      cursor,
		CanMoveUp:   s.order.CanMoveUp(cursor),
		CanMoveDown: s.order.CanMoveDown(cursor),
		Comment:     s.comment,
		OutputName:  s.outputName,
	}
}

// SessionStore keeps sessions in memory. Idle sessions expire after ttl and
// the oldest session is evicted when the store is full.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration, max int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

// Put adds a session, evicting the least recently used one if the store is full.
func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		st.evictOldestLocked()
	}
	st.sessions[s.ID] = s
}

// Get returns a live session and refreshes its access time.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	s.mu.Lock()
	expired := st.expired(s, now)
	if !expired {
		s.lastAccess = now
	}
	s.mu.Unlock()

	if expired {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of stored sessions, expired ones included.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		expired := st.expired(s, now)
		s.mu.Unlock()
		if expired {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// expired must be called with s.mu held.
func (st *SessionStore) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.lastAccess) > st.ttl
}

func (st *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range st.sessions {
		s.mu.Lock()
		last := s.lastAccess
		s.mu.Unlock()
		if oldestID == "" || last.Before(oldest) {
			oldestID, oldest = id, last
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}
