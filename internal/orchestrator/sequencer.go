package orchestrator

import (
	"context"
	"sync"
)

// last-request-wins bookkeeping for requests that share a (user, draft) key
type Sequencer struct {
	mu      sync.Mutex
	current map[string]*Token
}

func NewSequencer() *Sequencer {
	return &Sequencer{current: make(map[string]*Token)}
}

type Token struct {
	seq        *Sequencer
	key        string
	ctx        context.Context
	cancel     context.CancelFunc
	superseded bool
	committed  bool
}

// registers a new request and cancels the one it replaces; an empty draftID never conflicts
func (s *Sequencer) Begin(parent context.Context, userID, draftID string) *Token {
	ctx, cancel := context.WithCancel(parent)
	t := &Token{seq: s, ctx: ctx, cancel: cancel}

	if draftID == "" {
		return t
	}

	t.key = userID + "/" + draftID

	s.mu.Lock()
	if prev, ok := s.current[t.key]; ok && !prev.committed {
		prev.superseded = true
		prev.cancel()
	}
	s.current[t.key] = t
	s.mu.Unlock()

	return t
}

// cancelled as soon as a newer request for the same draft begins
func (t *Token) Context() context.Context {
	return t.ctx
}

// claims the right to persist; false when a newer request took over
func (t *Token) Commit() bool {
	if t.key == "" {
		return true
	}

	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()

	if t.superseded || t.seq.current[t.key] != t {
		return false
	}

	t.committed = true

	return true
}

func (t *Token) Superseded() bool {
	if t.key == "" {
		return false
	}

	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()

	return t.superseded
}

// releases the token; call when the request finishes
func (t *Token) Done() {
	t.cancel()

	if t.key == "" {
		return
	}

	t.seq.mu.Lock()
	if t.seq.current[t.key] == t {
		delete(t.seq.current, t.key)
	}
	t.seq.mu.Unlock()
}
