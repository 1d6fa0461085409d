// Package session keeps per-visitor state on the server.
//
// A Context is created when a visitor starts a session and discarded when the
// session ends or expires. It is never shared between sessions. Handlers get
// the Context for their request from the HTTP middleware.
package session

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

// Context is the mutable state of one session. All methods are safe for
// concurrent use by requests of the same session.
type Context struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	expiresAt   time.Time
	user        string
	city        string
	joinedForum bool
	chat        []models.ChatMessage
}

func newContext(id string, now time.Time, validity time.Duration) *Context {
	return &Context{
		ID:        id,
		CreatedAt: now,
		expiresAt: now.Add(validity),
		chat:      []models.ChatMessage{{Role: models.RoleSystem, Content: models.AssistantSystemPrompt}},
	}
}

func (c *Context) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

func (c *Context) expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt())
}

// User is the logged-in username, or "" for an anonymous session.
func (c *Context) User() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Context) LoggedIn() bool { return c.User() != "" }

// Login binds the session to username and prefills the working city with the
// user's stored default.
func (c *Context) Login(username, defaultCity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = username
	c.city = defaultCity
}

func (c *Context) City() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.city
}

func (c *Context) SetCity(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.city = city
}

func (c *Context) JoinedForum() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinedForum
}

func (c *Context) JoinForum() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joinedForum = true
}

// AppendChat adds turns to the chat history.
func (c *Context) AppendChat(msgs ...models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chat = append(c.chat, msgs...)
}

// ChatHistory returns a copy of the full history, system turn included.
func (c *Context) ChatHistory() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.chat))
	copy(out, c.chat)
	return out
}
