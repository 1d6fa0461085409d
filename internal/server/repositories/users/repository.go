package users

import (
	"context"

	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

// Repository loads and saves the whole user document. There is no partial
// update: every mutation is a full Load, change, Save cycle.
type Repository interface {
	// Load returns a fully normalized store. When the document cannot be
	// parsed it returns an empty, usable store together with an error
	// wrapping common.ErrStorageCorrupt.
	Load(ctx context.Context) (models.UserStore, error)
	// Save overwrites the document with store.
	Save(ctx context.Context, store models.UserStore) error
}
