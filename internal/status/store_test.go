package status

import (
	"fmt"
	"sync"
	"testing"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInitialStatus(t *testing.T) {
	s := NewStore()
	got := s.Get()

	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, entity.StatusStarting, got.Status)
}

func TestStoreSetGet(t *testing.T) {
	s := NewStore()
	s.Set(entity.ProcessingStatus{Progress: 42, Status: "Processing frame 42 of 100"})

	got := s.Get()
	assert.Equal(t, 42, got.Progress)
	assert.Equal(t, "Processing frame 42 of 100", got.Status)
}

// TestStoreNoTornReads hammers the store with writers that only ever write
// self-consistent records and checks that a reader never observes a pair of
// fields from two different writes.
func TestStoreNoTornReads(t *testing.T) {
	s := NewStore()

	record := func(p int) entity.ProcessingStatus {
		return entity.ProcessingStatus{Progress: p, Status: fmt.Sprintf("Processing frame %d of 100", p)}
	}

	var wg sync.WaitGroup
	done := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 0; p <= 100; p++ {
				select {
				case <-done:
					return
				default:
					s.Set(record(p))
				}
			}
		}()
	}

	for i := 0; i < 10000; i++ {
		got := s.Get()
		if got.Status == entity.StatusStarting {
			continue
		}
		require.Equal(t, record(got.Progress), got, "observed torn progress/status pair")
	}

	close(done)
	wg.Wait()
}

func TestNarrationStoreEmptyUntilVideoSet(t *testing.T) {
	s := NewNarrationStore()

	_, ok := s.Get()
	assert.False(t, ok)

	s.Set(entity.NarrationRecord{Narration: "A person falls near the entrance.", Video: "clip.mp4"})
	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "A person falls near the entrance.", got.Narration)
	assert.Equal(t, "clip.mp4", got.Video)
}

func TestNarrationStoreLastWriterWins(t *testing.T) {
	s := NewNarrationStore()
	s.Set(entity.NarrationRecord{Narration: "first", Video: "a.mp4"})
	s.Set(entity.NarrationRecord{Narration: "second", Video: "b.mp4"})

	got, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, entity.NarrationRecord{Narration: "second", Video: "b.mp4"}, got)
}
