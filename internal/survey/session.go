package survey

import (
	"context"
	"sync"

	"github.com/alexanderramin/gymform/internal/domain"
)

// Persister stores a snapshot of the form after every mutation. It must not
// fail loudly: storage is a best-effort cache.
type Persister interface {
	Save(ctx context.Context, fd *domain.FormData)
}

// Session owns the live FormData. Every write goes through Update, which
// serializes mutations and persists the merged result.
type Session struct {
	mu        sync.Mutex
	data      *domain.FormData
	persister Persister
}

// NewSession wraps initial (or defaults when nil). persister may be nil.
func NewSession(initial *domain.FormData, persister Persister) *Session {
	if initial == nil {
		initial = domain.NewFormData()
	} else {
		initial = initial.Clone()
	}
	return &Session{data: initial, persister: persister}
}

// Update applies fn to the live data and persists a snapshot. Concurrent or
// back-to-back updates to different fields are merged, never lost.
func (s *Session) Update(ctx context.Context, fn func(fd *domain.FormData)) {
	s.mu.Lock()
	fn(s.data)
	s.data.Normalize()
	snapshot := s.data.Clone()
	if s.persister != nil {
		s.persister.Save(ctx, snapshot)
	}
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current data.
func (s *Session) Snapshot() *domain.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Replace swaps the whole form, used by an explicit reset.
func (s *Session) Replace(ctx context.Context, fd *domain.FormData) {
	s.Update(ctx, func(cur *domain.FormData) {
		if fd == nil {
			fd = domain.NewFormData()
		}
		*cur = *fd.Clone()
	})
}
