package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type memoryEntry struct {
	state     entity.GameState
	expiresAt time.Time
}

// MemoryGameRepository keeps session states in process memory; they are lost on restart.
// An entry not written for longer than the ttl is treated as gone. A zero ttl keeps entries forever.
type MemoryGameRepository struct {
	mu    sync.Mutex
	games map[string]memoryEntry

	ttl time.Duration
	now func() time.Time
}

var _ GameRepository = (*MemoryGameRepository)(nil)

func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	return &MemoryGameRepository{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, sessionID string, state entity.GameState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry := memoryEntry{state: state}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.games[sessionID] = entry

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, sessionID string) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[sessionID]
	if !ok {
		return entity.GameState{}, ErrGameNotFound
	}

	if that.expired(entry) {
		delete(that.games, sessionID)
		return entity.GameState{}, ErrGameNotFound
	}

	return entry.state, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[sessionID]
	if !ok {
		return ErrGameNotFound
	}

	delete(that.games, sessionID)

	if that.expired(entry) {
		return ErrGameNotFound
	}

	return nil
}

// Sweep - drops every expired entry and returns how many were removed.
func (that *MemoryGameRepository) Sweep() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for sessionID, entry := range that.games {
		if that.expired(entry) {
			delete(that.games, sessionID)
			removed++
		}
	}

	return removed
}

// Len - number of entries held, expired ones included until the next sweep.
func (that *MemoryGameRepository) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.games)
}

// RunCleanup - sweeps on every tick until the context is canceled.
func (that *MemoryGameRepository) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep()
		}
	}
}

func (that *MemoryGameRepository) expired(entry memoryEntry) bool {
	return that.ttl > 0 && !that.now().Before(entry.expiresAt)
}
