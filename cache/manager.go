// Package cache provides in-memory caching for generated survey scripts and
// per-visitor display counters.
package cache

import (
	"sync"
	"time"
)

type scriptEntry struct {
	body      string
	updatedAt time.Time
	cachedAt  time.Time
}

// Manager holds the script cache and display counters. All methods are safe
// for concurrent use; no method calls another public method while holding
// the lock.
type Manager struct {
	mu        sync.RWMutex
	scriptTTL time.Duration
	scripts   map[string]*scriptEntry
	displays  map[string]map[string]int // surveyID -> visitorID -> count
}

func NewManager(scriptTTL time.Duration) *Manager {
	return &Manager{
		scriptTTL: scriptTTL,
		scripts:   make(map[string]*scriptEntry),
		displays:  make(map[string]map[string]int),
	}
}

// GetScript returns the cached script body for a survey, provided the cached
// copy was generated from the same survey revision and has not expired.
func (m *Manager) GetScript(surveyID string, updatedAt time.Time) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.scripts[surveyID]
	if !exists {
		return "", false
	}
	if !entry.updatedAt.Equal(updatedAt) {
		return "", false
	}
	if m.scriptTTL > 0 && time.Since(entry.cachedAt) > m.scriptTTL {
		return "", false
	}
	return entry.body, true
}

// SetScript stores a generated script keyed by the survey revision it was
// built from.
func (m *Manager) SetScript(surveyID string, updatedAt time.Time, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[surveyID] = &scriptEntry{
		body:      body,
		updatedAt: updatedAt,
		cachedAt:  time.Now(),
	}
}

// InvalidateScript drops the cached script for a survey, used after status
// changes and deletes.
func (m *Manager) InvalidateScript(surveyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scripts, surveyID)
}

// DisplayCount returns how many times a visitor has been shown a survey.
func (m *Manager) DisplayCount(surveyID, visitorID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displays[surveyID][visitorID]
}

// RecordDisplay counts one display of a survey to a visitor and returns the
// new count.
func (m *Manager) RecordDisplay(surveyID, visitorID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	visitors := m.displays[surveyID]
	if visitors == nil {
		visitors = make(map[string]int)
		m.displays[surveyID] = visitors
	}
	visitors[visitorID]++
	return visitors[visitorID]
}

// ForgetSurvey drops all cached state for a survey.
func (m *Manager) ForgetSurvey(surveyID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scripts, surveyID)
	delete(m.displays, surveyID)
}
