package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/banddevs/backend/internal/model"
	"github.com/banddevs/backend/internal/repository"
	"github.com/banddevs/backend/pkg/resend"
)

// NotifyConfig is the sender and recipients of notification emails.
type NotifyConfig struct {
	From string
	To   []string
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	mailer resend.Client
	notify NotifyConfig
	now    func() time.Time
}

// NewContactService creates a ContactService backed by the given repository
// and email client.
func NewContactService(repo repository.ContactRepository, mailer resend.Client, notify NotifyConfig) ContactService {
	return &contactServiceImpl{
		repo:   repo,
		mailer: mailer,
		notify: notify,
		now:    time.Now,
	}
}

// Submit checks the email configuration, persists msg, then sends the
// notification. The two steps are independent: there is no rollback when the
// send fails after the insert.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) error {
	if s.mailer == nil || !s.mailer.Configured() {
		return ErrEmailNotConfigured
	}

	now := s.now().UTC()
	msg.Company = strings.TrimSpace(msg.Company)
	msg.Service = strings.TrimSpace(msg.Service)
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if err := s.repo.Save(ctx, msg); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}

	res, err := s.mailer.Send(ctx, resend.SendParams{
		From:    s.notify.From,
		To:      s.notify.To,
		Subject: "New Contact Form Submission from " + msg.Name,
		HTML:    RenderNotification(msg, now),
		ReplyTo: msg.Email,
	})
	if err != nil {
		return fmt.Errorf("send notification for contact %s: %w", msg.ID, err)
	}
	slog.Info("contact notification sent", "contact_id", msg.ID, "email_id", res.ID)
	return nil
}

// List returns contact messages according to the given pagination options.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	return s.repo.List(ctx, opts)
}
