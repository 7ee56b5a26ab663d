package session

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore хранилище сессий в памяти процесса.
// Сессии хранятся в сериализованном виде, поэтому изменения полученной копии
// не видны до Save
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore создает хранилище с временем жизни сессии ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get возвращает сессию по ID
func (m *MemoryStore) Get(_ context.Context, id string) (*wizard.Session, error) {
	m.mu.RLock()
	entry, ok := m.items[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, ErrSessionNotFound
	}
	return decode(entry.data)
}

// Save сохраняет сессию и продлевает её время жизни
func (m *MemoryStore) Save(_ context.Context, s *wizard.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.items[s.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Delete удаляет сессию
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// Cleanup удаляет истекшие сессии, возвращает количество удаленных
func (m *MemoryStore) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.items {
		if m.expired(entry) {
			delete(m.items, id)
			removed++
		}
	}
	return removed
}

// RunCleanup периодически вызывает Cleanup до отмены ctx
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return m.ttl > 0 && !m.now().Before(entry.expiresAt)
}
