package storage

import (
	"sync"
	"time"
)

type memoryEntry struct {
	payload []byte
	expiry  time.Time
}

// memoryStore keeps sessions in process; used for single-instance deployments and tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     opts.SessionTTL,
		now:     time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Load(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiry.After(m.now()) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.payload...), nil
}

func (m *memoryStore) Save(id string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if !e.expiry.After(now) {
			delete(m.entries, k)
		}
	}
	m.entries[id] = memoryEntry{
		payload: append([]byte(nil), payload...),
		expiry:  now.Add(m.ttl),
	}
	return nil
}

func (m *memoryStore) Delete(id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
