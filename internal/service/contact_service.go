package service

import (
	"context"
	"errors"

	"github.com/banddevs/backend/internal/model"
)

// ErrEmailNotConfigured is returned by Submit when the email provider has no
// API key. Nothing is persisted in that case.
var ErrEmailNotConfigured = errors.New("email service not configured")

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact message and sends the notification email.
	// msg.ID and timestamps are populated by the implementation. A failed
	// send does not remove the stored row.
	Submit(ctx context.Context, msg *model.ContactMessage) error

	// List returns stored contact messages according to the given options.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
}
