package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
)

type ChatCompleter interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// ChatService runs the farmer assistant conversation kept on each session.
type ChatService struct {
	completer ChatCompleter
	logger    logging.Logger
}

func NewChatService(c ChatCompleter, logger logging.Logger) *ChatService {
	return &ChatService{completer: c, logger: logger.With("service", "chat")}
}

// Send appends the user turn, asks the assistant with the whole history and
// appends its reply. On failure the user turn stays in the history.
func (s *ChatService) Send(ctx context.Context, sess *session.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.ErrEmptyMessage
	}

	sess.AppendChat(models.ChatMessage{Role: models.RoleUser, Content: text})

	reply, err := s.completer.Complete(ctx, sess.ChatHistory())
	if err != nil {
		s.logger.Warn(ctx, "assistant unavailable", "session", sess.ID, "error", err)
		return "", err
	}

	sess.AppendChat(models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	return reply, nil
}

// History returns the visible conversation, without the system turn.
func (s *ChatService) History(sess *session.Context) []models.ChatMessage {
	all := sess.ChatHistory()
	out := make([]models.ChatMessage, 0, len(all))
	for _, m := range all {
		if m.Role != models.RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
