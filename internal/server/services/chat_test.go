package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	seen  []models.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []models.ChatMessage) (string, error) {
	f.seen = msgs
	return f.reply, f.err
}

func TestChatSend_AppendsBothTurns(t *testing.T) {
	c := &fakeCompleter{reply: "Use drip irrigation."}
	svc := NewChatService(c, logging.Discard())
	sess := newSession(t)

	reply, err := svc.Send(context.Background(), sess, "  How to save water? ")
	require.NoError(t, err)
	assert.Equal(t, "Use drip irrigation.", reply)

	require.Len(t, c.seen, 2)
	assert.Equal(t, models.RoleSystem, c.seen[0].Role)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "How to save water?"}, c.seen[1])

	assert.Equal(t, []models.ChatMessage{
		{Role: models.RoleUser, Content: "How to save water?"},
		{Role: models.RoleAssistant, Content: "Use drip irrigation."},
	}, svc.History(sess))
}

func TestChatSend_SendsWholeHistory(t *testing.T) {
	c := &fakeCompleter{reply: "ok"}
	svc := NewChatService(c, logging.Discard())
	sess := newSession(t)

	_, err := svc.Send(context.Background(), sess, "first")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), sess, "second")
	require.NoError(t, err)

	assert.Len(t, c.seen, 4)
	assert.Equal(t, "second", c.seen[3].Content)
}

func TestChatSend_Empty(t *testing.T) {
	svc := NewChatService(&fakeCompleter{}, logging.Discard())
	sess := newSession(t)

	_, err := svc.Send(context.Background(), sess, "   ")
	assert.ErrorIs(t, err, common.ErrEmptyMessage)
	assert.Empty(t, svc.History(sess))
}

func TestChatSend_ProviderFailureKeepsUserTurn(t *testing.T) {
	c := &fakeCompleter{err: fmt.Errorf("%w: 503", common.ErrExternalUnavailable)}
	svc := NewChatService(c, logging.Discard())
	sess := newSession(t)

	_, err := svc.Send(context.Background(), sess, "hello")
	assert.ErrorIs(t, err, common.ErrExternalUnavailable)
	assert.Equal(t, []models.ChatMessage{{Role: models.RoleUser, Content: "hello"}}, svc.History(sess))
}
