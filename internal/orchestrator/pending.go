package orchestrator

import (
	"sync"
	"time"
)

// generated text whose record could not be written, kept so a retry skips the provider
type PendingTexts struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingText
	now     func() time.Time
}

type pendingText struct {
	text      string
	expiresAt time.Time
}

func NewPendingTexts(ttl time.Duration) *PendingTexts {
	return &PendingTexts{ttl: ttl, entries: make(map[string]pendingText), now: time.Now}
}

func (p *PendingTexts) Park(userID, requestID, text string) {
	if requestID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for k, e := range p.entries {
		if now.After(e.expiresAt) {
			delete(p.entries, k)
		}
	}

	p.entries[userID+"/"+requestID] = pendingText{text: text, expiresAt: now.Add(p.ttl)}
}

// removes and returns the parked text, if still fresh
func (p *PendingTexts) Take(userID, requestID string) (string, bool) {
	if requestID == "" {
		return "", false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := userID + "/" + requestID
	e, ok := p.entries[key]
	if !ok {
		return "", false
	}

	delete(p.entries, key)

	if p.now().After(e.expiresAt) {
		return "", false
	}

	return e.text, true
}

