package editor

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/resume-editor/internal/types"
)

// IDSource hands out timestamp-derived IDs that are strictly increasing and
// therefore never reused within one source.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource creates an IDSource. A nil clock uses time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns a fresh ID: the current Unix millisecond, bumped past the last
// ID issued or reserved.
func (s *IDSource) Next() types.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return types.ID(strconv.FormatInt(ms, 10))
}

// Reserve marks numeric IDs as used so later IDs sort after them.
// Non-numeric IDs are ignored.
func (s *IDSource) Reserve(ids ...types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		n, err := strconv.ParseInt(string(id), 10, 64)
		if err == nil && n > s.last {
			s.last = n
		}
	}
}

// ReserveDocument reserves every section and bullet ID in doc
func (s *IDSource) ReserveDocument(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}
	for _, section := range doc.Sections {
		s.Reserve(section.ID)
		for _, bullet := range section.Bullets {
			s.Reserve(bullet.ID)
		}
	}
}
