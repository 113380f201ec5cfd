package repository

import (
	"context"

	"github.com/banddevs/backend/internal/model"
)

// DB checks that the datastore connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Save inserts msg and populates msg.ID. Empty Company/Service are stored as NULL.
	Save(ctx context.Context, msg *model.ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
}
