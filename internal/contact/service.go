package contact

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/soilminds/soilminds-backend/pkg/config"
	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const sentEmailsLimit = 10

// SendParams carries one contact form submission.
type SendParams struct {
	Name    string
	Email   string
	Message string
	UserID  *uint
}

// SendResult reports whether delivery actually happened; the form submission
// itself succeeds either way.
type SendResult struct {
	EmailSent bool
	Message   string
}

// Service defines contact form operations.
type Service interface {
	Send(ctx context.Context, params SendParams) (*SendResult, error)
	SentEmails(ctx context.Context, userID uint) ([]models.Contact, error)
}

// ServiceParams wires the contact service dependencies.
type ServiceParams struct {
	Repo   Repository
	Sender Sender
	Config config.ContactConfig
	Logger *logger.Logger
}

type service struct {
	repo   Repository
	sender Sender
	cfg    config.ContactConfig
	logger *logger.Logger
}

// NewService wires contact dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contact repository required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "email sender required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:   params.Repo,
		sender: params.Sender,
		cfg:    params.Config,
		logger: params.Logger,
	}, nil
}

// Send validates the submission, attempts delivery to the site inbox plus a
// confirmation to the sender, and stores the audit row. Delivery and storage
// failures are logged but never fail the submission.
func (s *service) Send(ctx context.Context, params SendParams) (*SendResult, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	message := strings.TrimSpace(params.Message)
	if name == "" || email == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "All fields are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid email format")
	}

	htmlMessage := strings.ReplaceAll(message, "\n", "<br>")
	emailSent := true

	err := s.sender.Send(ctx, Email{
		From:    s.cfg.From,
		To:      s.cfg.Recipient,
		Subject: fmt.Sprintf("New Contact Form Message from %s", name),
		HTML: fmt.Sprintf("<h2>New Contact Message</h2><p><strong>From:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p><p><strong>Message:</strong></p><p>%s</p>",
			name, email, htmlMessage),
	})
	if err == nil {
		err = s.sender.Send(ctx, Email{
			From:    s.cfg.From,
			To:      email,
			Subject: "We received your message",
			HTML: fmt.Sprintf("<h2>Thank you for contacting us!</h2><p>Hi %s,</p>"+
				"<p>We have received your message and will get back to you as soon as possible.</p>"+
				"<p><strong>Your message:</strong></p><p>%s</p>", name, htmlMessage),
		})
	}
	if err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "contact email delivery failed")
		emailSent = false
	}

	record := &models.Contact{Name: name, Email: email, Message: message, UserID: params.UserID}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "contact storage failed")
	}

	result := &SendResult{EmailSent: emailSent, Message: "Email sent successfully!"}
	if !emailSent {
		result.Message = "Message received (email service not configured)"
	}
	return result, nil
}

// SentEmails returns the user's last submissions, newest first.
func (s *service) SentEmails(ctx context.Context, userID uint) ([]models.Contact, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	list, err := s.repo.ListByUser(ctx, userID, sentEmailsLimit)
	if err != nil {
		// Degrade to an empty list so the widget still renders.
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "contact history unavailable")
		return []models.Contact{}, nil
	}
	if list == nil {
		list = []models.Contact{}
	}
	return list, nil
}
