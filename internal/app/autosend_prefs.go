package app

import (
	"sort"
	"sync"
)

// AutoSendPreferences is session-scoped, in-memory auto-approval state: a
// global enable flag, a per-suggestion approval set, a pause flag, and a
// first-use disclaimer flag. It starts empty, is mutated by user toggles and
// discarded at session end. It deliberately does not gate the dispatch
// worker's kill-switch, which lives in the record store.
//
// The HTTP layer is concurrent, so all access goes through the mutex.
type AutoSendPreferences struct {
	mu             sync.Mutex
	enabled        bool
	paused         bool
	approved       map[string]bool
	disclaimerSeen bool
}

// PreferencesSnapshot is a point-in-time copy safe to serialize.
type PreferencesSnapshot struct {
	Enabled        bool     `json:"enabled"`
	Paused         bool     `json:"paused"`
	Approved       []string `json:"approved_suggestion_ids"`
	DisclaimerSeen bool     `json:"disclaimer_seen"`
}

func NewAutoSendPreferences() *AutoSendPreferences {
	return &AutoSendPreferences{approved: make(map[string]bool)}
}

func (p *AutoSendPreferences) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

func (p *AutoSendPreferences) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
}

// Active reports whether auto-approval should currently run.
func (p *AutoSendPreferences) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled && !p.paused
}

func (p *AutoSendPreferences) Approve(suggestionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.approved[suggestionID] = true
}

func (p *AutoSendPreferences) Revoke(suggestionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.approved, suggestionID)
}

func (p *AutoSendPreferences) IsApproved(suggestionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.approved[suggestionID]
}

// MarkDisclaimerSeen records that the first-use disclaimer was shown and
// reports whether this call was the first time.
func (p *AutoSendPreferences) MarkDisclaimerSeen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	first := !p.disclaimerSeen
	p.disclaimerSeen = true
	return first
}

func (p *AutoSendPreferences) Snapshot() PreferencesSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	approved := make([]string, 0, len(p.approved))
	for id := range p.approved {
		approved = append(approved, id)
	}
	sort.Strings(approved)
	return PreferencesSnapshot{
		Enabled:        p.enabled,
		Paused:         p.paused,
		Approved:       approved,
		DisclaimerSeen: p.disclaimerSeen,
	}
}
