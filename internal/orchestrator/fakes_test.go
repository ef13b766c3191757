package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/aiam/server/aiam/affirmations"
	"codeberg.org/aiam/server/aiam/users"
	"codeberg.org/aiam/server/internal/audiocache"
	"codeberg.org/aiam/server/internal/background"
	"codeberg.org/aiam/server/internal/credits"
	"codeberg.org/aiam/server/internal/imagegen"
)

// balances keyed by user id, debited the way the SQL guard does
type memoryBalances struct {
	mu       sync.Mutex
	balances map[string]int
	debitErr error
}

func (m *memoryBalances) Balance(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *memoryBalances) DebitIfSufficient(_ context.Context, userID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.debitErr != nil {
		return 0, m.debitErr
	}

	if m.balances[userID] < amount {
		return 0, credits.ErrNoFunds
	}

	m.balances[userID] -= amount

	return m.balances[userID], nil
}

func (m *memoryBalances) Credit(_ context.Context, userID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[userID] += amount

	return m.balances[userID], nil
}

func (m *memoryBalances) set(userID string, balance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *memoryBalances) setDebitErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debitErr = err
}

func (m *memoryBalances) get(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

// affirmations table stand-in; also serves as the audio cache repository
type memoryAffirmations struct {
	mu        sync.Mutex
	rows      map[string]*affirmations.Affirmation
	createErr []error
	deleted   []string
}

func newMemoryAffirmations() *memoryAffirmations {
	return &memoryAffirmations{rows: map[string]*affirmations.Affirmation{}}
}

func (m *memoryAffirmations) copyOf(a *affirmations.Affirmation) *affirmations.Affirmation {
	c := *a
	c.AudioURLs = affirmations.AudioURLs{}
	for k, v := range a.AudioURLs {
		c.AudioURLs[k] = v
	}

	return &c
}

func (m *memoryAffirmations) Create(_ context.Context, p affirmations.CreateParams) (*affirmations.Affirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.createErr) > 0 {
		err := m.createErr[0]
		m.createErr = m.createErr[1:]
		if err != nil {
			return nil, err
		}
	}

	a := &affirmations.Affirmation{
		ID:            p.ID,
		UserID:        p.UserID,
		Text:          p.Text,
		CategoryID:    p.Category.ID,
		CategoryTitle: p.Category.Title,
		AudioURLs:     affirmations.AudioURLs{},
		CreatedAt:     time.Now(),
	}
	m.rows[a.ID] = a

	return m.copyOf(a), nil
}

func (m *memoryAffirmations) Get(_ context.Context, id, userID string) (*affirmations.Affirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok || a.UserID != userID {
		return nil, affirmations.ErrAffirmationNotFound
	}

	return m.copyOf(a), nil
}

func (m *memoryAffirmations) List(_ context.Context, userID string, filter affirmations.ListFilter) ([]affirmations.Affirmation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []affirmations.Affirmation
	for _, a := range m.rows {
		if a.UserID == userID && (!filter.FavoritesOnly || a.IsFavorite) {
			out = append(out, *m.copyOf(a))
		}
	}

	return out, len(out), nil
}

func (m *memoryAffirmations) SetImage(_ context.Context, id, userID, url string) (*affirmations.Affirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok || a.UserID != userID {
		return nil, affirmations.ErrAffirmationNotFound
	}

	if a.HasImage() {
		return nil, affirmations.ErrImageAlreadySet
	}

	a.ImageURL = &url

	return m.copyOf(a), nil
}

func (m *memoryAffirmations) ClaimVoiceCharge(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok || a.UserID != userID || a.VoiceCloneCharged {
		return false, nil
	}

	a.VoiceCloneCharged = true

	return true, nil
}

func (m *memoryAffirmations) ReleaseVoiceCharge(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.rows[id]; ok && a.UserID == userID {
		a.VoiceCloneCharged = false
	}

	return nil
}

func (m *memoryAffirmations) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rows, id)
	m.deleted = append(m.deleted, id)

	return nil
}

func (m *memoryAffirmations) GetAudio(_ context.Context, id, voiceID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return "", affirmations.ErrAffirmationNotFound
	}

	return a.AudioURLs[voiceID], nil
}

func (m *memoryAffirmations) PutAudioIfAbsent(_ context.Context, id, voiceID, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.rows[id]
	if !ok {
		return "", affirmations.ErrAffirmationNotFound
	}

	if existing := a.AudioURLs[voiceID]; existing != "" {
		return existing, nil
	}

	a.AudioURLs[voiceID] = url

	return url, nil
}

func (m *memoryAffirmations) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type noopProfiles struct{}

func (noopProfiles) IncrementSavedCount(context.Context, string) error { return nil }

type mockText struct {
	generateFunc func(ctx context.Context, category string) (string, error)
	calls        atomic.Int32
}

func (m *mockText) Generate(ctx context.Context, category string) (string, error) {
	m.calls.Add(1)
	return m.generateFunc(ctx, category)
}

type mockImages struct {
	generateFunc func(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
	lastRequest  imagegen.Request
	calls        atomic.Int32
}

func (m *mockImages) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error) {
	m.calls.Add(1)
	m.lastRequest = req
	return m.generateFunc(ctx, req)
}

type mockSpeech struct {
	calls atomic.Int32
	err   error
	// when set, synthesis waits for it to close
	block chan struct{}
}

func (m *mockSpeech) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	m.calls.Add(1)
	if m.block != nil {
		<-m.block
	}

	if m.err != nil {
		return nil, m.err
	}

	return []byte("mp3:" + voiceID + ":" + text), nil
}

type fakeAssets struct{}

func (fakeAssets) RehostImage(_ context.Context, src, userID, affirmationID string) string {
	return "https://cdn.aiam.app/users/" + userID + "/affirmations/" + affirmationID + "/images/generated.jpg"
}

func (fakeAssets) StoreBytes(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if strings.Contains(key, "..") {
		return "", errors.New("bad key")
	}

	return "https://cdn.aiam.app/" + key, nil
}

type harness struct {
	orch     *Orchestrator
	balances *memoryBalances
	affs     *memoryAffirmations
	text     *mockText
	images   *mockImages
	speech   *mockSpeech
	runner   *background.Runner
	seq      atomic.Int32
}

const testUser = "user-1"

func newHarness(t *testing.T, balance int) *harness {
	t.Helper()

	h := &harness{
		balances: &memoryBalances{balances: map[string]int{testUser: balance}},
		affs:     newMemoryAffirmations(),
		text: &mockText{generateFunc: func(ctx context.Context, category string) (string, error) {
			return "I am building a calm and abundant life, one grounded choice at a time.", nil
		}},
		images: &mockImages{generateFunc: func(ctx context.Context, req imagegen.Request) (*imagegen.Result, error) {
			return &imagegen.Result{URL: "https://replicate.delivery/out.jpg", Prompt: "a calm lake"}, nil
		}},
		speech: &mockSpeech{},
		runner: background.NewRunner(time.Second),
	}

	h.orch = New(Dependencies{
		Affirmations: h.affs,
		Profiles:     noopProfiles{},
		Ledger:       credits.NewGuard(h.balances),
		Text:         h.text,
		Images:       h.images,
		Speech:       h.speech,
		Assets:       fakeAssets{},
		AudioCache:   audiocache.New(h.affs, nil),
		Tasks:        h.runner,
	})

	h.orch.newID = func() string {
		return "aff-" + string(rune('a'+h.seq.Add(1)-1))
	}

	return h
}

func plainSession() *Session {
	return &Session{UserID: testUser, Profile: &users.Profile{ID: testUser, DefaultAspectRatio: "1:1"}}
}

func personalSession() *Session {
	s := plainSession()
	s.Profile.PortraitImageURL = "https://cdn/p.jpg"
	s.Profile.FullBodyImageURL = "https://cdn/f.jpg"
	s.Profile.VoiceCloneID = "clone-voice-1"
	s.Profile.VoiceCloneName = "Me"
	return s
}

func boolPtr(b bool) *bool { return &b }
