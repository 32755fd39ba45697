package permission

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// RepeatThreshold is the number of identical rejected commands in a row
// before the rejection is flagged as repeated.
const RepeatThreshold = 3

// maxHistory bounds the per-session history length.
const maxHistory = 10

// RepeatDetector tracks rejected commands per session to spot an agent
// re-proposing the same command after identical rejections.
type RepeatDetector struct {
	mu      sync.Mutex
	history map[string][]string // sessionID -> recent rejected command hashes
}

// NewRepeatDetector creates a new repeat detector.
func NewRepeatDetector() *RepeatDetector {
	return &RepeatDetector{
		history: make(map[string][]string),
	}
}

// Observe records a rejected command and reports whether this rejection is
// the RepeatThreshold-th identical one in a row for the session.
func (d *RepeatDetector) Observe(sessionID, command string) bool {
	hash := hashCommand(command)

	d.mu.Lock()
	defer d.mu.Unlock()

	history := append(d.history[sessionID], hash)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	d.history[sessionID] = history

	if len(history) < RepeatThreshold {
		return false
	}
	for _, h := range history[len(history)-RepeatThreshold:] {
		if h != hash {
			return false
		}
	}
	return true
}

// Reset clears the history for a session after an allowed command breaks
// the streak.
func (d *RepeatDetector) Reset(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history[sessionID] = nil
}

// Clear drops all state for a session.
func (d *RepeatDetector) Clear(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.history, sessionID)
}

func hashCommand(command string) string {
	h := sha256.Sum256([]byte(command))
	return hex.EncodeToString(h[:])
}
