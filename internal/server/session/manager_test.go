package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(validity time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	m := NewManager(validity, logging.Discard())
	m.now = clock.Now
	return m, clock
}

func TestStart_NewSessionIsAnonymousAndSeeded(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	s := m.Start()
	require.NotEmpty(t, s.ID)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.City())
	assert.False(t, s.JoinedForum())
	assert.Equal(t, []models.ChatMessage{{Role: models.RoleSystem, Content: models.AssistantSystemPrompt}}, s.ChatHistory())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestStart_SessionsAreIsolated(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	a, b := m.Start(), m.Start()
	require.NotEqual(t, a.ID, b.ID)

	a.Login("ravi", "Pune")
	a.JoinForum()
	a.AppendChat(models.ChatMessage{Role: models.RoleUser, Content: "hi"})

	assert.Empty(t, b.User())
	assert.Empty(t, b.City())
	assert.False(t, b.JoinedForum())
	assert.Len(t, b.ChatHistory(), 1)
}

func TestGet_ExpiredAndUnknown(t *testing.T) {
	m, clock := newTestManager(time.Hour)
	s := m.Start()

	clock.Advance(59 * time.Minute)
	_, err := m.Get(s.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	_, err = m.Get("nope")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestEnd(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s := m.Start()

	m.End(s.ID)
	m.End("unknown")

	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
	assert.Zero(t, m.Len())
}

func TestSweep(t *testing.T) {
	m, clock := newTestManager(time.Hour)
	old := m.Start()
	clock.Advance(30 * time.Minute)
	fresh := m.Start()
	clock.Advance(45 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, err := m.Get(old.ID)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRunSweeper_StopsOnCancel(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestContext_ChatHistoryIsACopy(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s := m.Start()

	h := s.ChatHistory()
	h[0].Content = "changed"

	assert.Equal(t, models.AssistantSystemPrompt, s.ChatHistory()[0].Content)
}

func TestContext_LoginPrefillsCity(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s := m.Start()

	s.Login("ravi", "")
	assert.Equal(t, "ravi", s.User())
	assert.Empty(t, s.City())

	s.SetCity("Nagpur")
	assert.Equal(t, "Nagpur", s.City())
}
