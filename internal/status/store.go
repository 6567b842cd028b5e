// Package status holds the process-wide mutable records shared between the
// HTTP layer and the background pipeline. Each store guards a whole record
// with a single mutex so readers never observe a torn field combination.
package status

import (
	"sync"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// Store is the progress record for the current detection run. Last writer
// wins across runs; no history is kept.
type Store struct {
	mu     sync.Mutex
	status entity.ProcessingStatus
}

func NewStore() *Store {
	return &Store{
		status: entity.ProcessingStatus{Progress: 0, Status: entity.StatusStarting},
	}
}

func (s *Store) Get() entity.ProcessingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) Set(status entity.ProcessingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
