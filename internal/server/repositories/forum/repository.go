// Package forum persists the discussion forum as one JSON document,
// {"posts": [...]}, rewritten whole on every change.
package forum

import (
	"context"

	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

type Repository interface {
	// Load returns the forum with Posts and every Replies slice non-nil.
	Load(ctx context.Context) (*models.Forum, error)
	Save(ctx context.Context, f *models.Forum) error
}
