package prefs

import (
	"errors"
	"sync"
)

// ErrInjected is returned by Memory when a failure knob is set.
var ErrInjected = errors.New("injected failure")

// Memory is a map-backed Provider. Committed values and staged writes are kept apart so tests
// can observe exactly what was made durable. The Fail* knobs inject errors.
type Memory struct {
	mu        sync.Mutex
	committed map[string]string
	staged    map[string]string

	// FailWrites makes the next N Set* calls fail.
	FailWrites int
	// FailCommits makes the next N Commit calls fail and drop the staged writes.
	FailCommits int

	commits int
}

// NewMemory returns an empty Memory provider.
func NewMemory() *Memory {
	return &Memory{
		committed: make(map[string]string),
		staged:    make(map[string]string),
	}
}

func (m *Memory) lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.staged[key]; ok {
		return v, true
	}
	v, ok := m.committed[key]
	return v, ok
}

func (m *Memory) set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites > 0 {
		m.FailWrites--
		return ErrInjected
	}
	if m.staged == nil {
		m.staged = make(map[string]string)
	}
	m.staged[key] = value
	return nil
}

// GetString returns the value under key or def.
func (m *Memory) GetString(key, def string) string {
	if v, ok := m.lookup(key); ok {
		return v
	}
	return def
}

// SetString stages value under key.
func (m *Memory) SetString(key, value string) error {
	return m.set(key, value)
}

// GetFloat returns the float under key or def when missing or malformed.
func (m *Memory) GetFloat(key string, def float64) float64 {
	v, ok := m.lookup(key)
	return ParseFloat(v, ok, def)
}

// SetFloat stages value under key.
func (m *Memory) SetFloat(key string, value float64) error {
	return m.set(key, FormatFloat(value))
}

// GetInt returns the int under key or def when missing or malformed.
func (m *Memory) GetInt(key string, def int) int {
	v, ok := m.lookup(key)
	return ParseInt(v, ok, def)
}

// SetInt stages value under key.
func (m *Memory) SetInt(key string, value int) error {
	return m.set(key, FormatInt(value))
}

// Commit moves staged writes into the committed map.
func (m *Memory) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCommits > 0 {
		m.FailCommits--
		m.staged = make(map[string]string)
		return ErrInjected
	}
	if m.committed == nil {
		m.committed = make(map[string]string)
	}
	for k, v := range m.staged {
		m.committed[k] = v
	}
	m.staged = make(map[string]string)
	m.commits++
	return nil
}

// Committed returns the durable value under key, ignoring staged writes.
func (m *Memory) Committed(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.committed[key]
	return v, ok
}

// Commits returns how many commits succeeded.
func (m *Memory) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}
