// Package store persists the high score between runs.
package store

import "sync"

// HighScoreStore loads and saves a single non-negative high score.
// A missing record loads as 0.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// Memory keeps the high score in process. Used by tests and as a fallback
// when no durable store is configured.
type Memory struct {
	mu    sync.Mutex
	score int
	saves int
}

// NewMemory returns a store preloaded with score.
func NewMemory(score int) *Memory {
	return &Memory{score: score}
}

// LoadHighScore implements HighScoreStore.
func (m *Memory) LoadHighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

// SaveHighScore implements HighScoreStore.
func (m *Memory) SaveHighScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	m.saves++
	return nil
}

// Saves reports how many times SaveHighScore was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var _ HighScoreStore = (*Memory)(nil)
