package status

import (
	"sync"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// NarrationStore holds the single current narration record. The record is
// replaced whole; Get reports whether a video has ever been set.
type NarrationStore struct {
	mu     sync.Mutex
	record entity.NarrationRecord
}

func NewNarrationStore() *NarrationStore {
	return &NarrationStore{}
}

func (s *NarrationStore) Get() (entity.NarrationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.record.Video != ""
}

func (s *NarrationStore) Set(record entity.NarrationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
}
