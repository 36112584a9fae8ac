package storage

import (
	"sync"
	"time"
)

// Memory is a process-lifetime Storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

// Expiring is Memory whose entries lapse after a TTL, mirroring the
// session-scoped storage of the browser flow.
type Expiring struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]expiringEntry
	now  func() time.Time
}

type expiringEntry struct {
	value   []byte
	expires time.Time
}

func NewExpiring(ttl time.Duration) *Expiring {
	return &Expiring{
		ttl:  ttl,
		data: make(map[string]expiringEntry),
		now:  time.Now,
	}
}

func (e *Expiring) Get(key string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.data[key]
	if !ok {
		return nil, errNotFound
	}
	if e.ttl > 0 && e.now().After(entry.expires) {
		delete(e.data, key)
		return nil, errNotFound
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (e *Expiring) Set(key string, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	e.data[key] = expiringEntry{value: v, expires: e.now().Add(e.ttl)}
	return nil
}

func (e *Expiring) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.data, key)
	return nil
}

func (e *Expiring) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = make(map[string]expiringEntry)
	return nil
}
