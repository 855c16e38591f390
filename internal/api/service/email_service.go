package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/email"
	"tradetracker/internal/entity"
	"tradetracker/pkg/auth"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/utils"

	"gorm.io/datatypes"
)

// EmailService handles the per-user email triggers exposed by the API. Every
// trigger verifies the target address belongs to the authenticated caller;
// bulk campaigns live in the mailer, not here.
type EmailService interface {
	SendWelcome(ctx context.Context, ident *auth.Identity, req *dto.EmailRequest) (*dto.EmailResponse, error)
	TriggerWelcome(ctx context.Context, ident *auth.Identity, req *dto.TriggerWelcomeEmailRequest) (*dto.EmailResponse, error)
	SendTradeReminder(ctx context.Context, ident *auth.Identity, req *dto.TradeReminderRequest) (*dto.EmailResponse, error)
	SendWeeklySummary(ctx context.Context, ident *auth.Identity, req *dto.WeeklySummaryEmailRequest) (*dto.EmailResponse, error)
	Resubscribe(ctx context.Context, ident *auth.Identity, req *dto.EmailRequest) (*dto.EmailResponse, error)
}

// NewEmailService creates a new email trigger service.
func NewEmailService(
	sender brevo.Sender,
	composer *email.Composer,
	tradeRepo repository.TradeRepository,
	emailLogRepo repository.EmailLogRepository,
	log *logger.Logger,
) EmailService {
	return &emailService{
		sender:       sender,
		composer:     composer,
		tradeRepo:    tradeRepo,
		emailLogRepo: emailLogRepo,
		logger:       log,
	}
}

type emailService struct {
	sender       brevo.Sender
	composer     *email.Composer
	tradeRepo    repository.TradeRepository
	emailLogRepo repository.EmailLogRepository
	logger       *logger.Logger
}

func (s *emailService) SendWelcome(ctx context.Context, ident *auth.Identity, req *dto.EmailRequest) (*dto.EmailResponse, error) {
	if err := verifyRecipient(ident, req.Email); err != nil {
		return nil, err
	}
	msg, err := s.composer.Welcome(req.Email, req.UserName)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, ident.UserID, common.EmailKindWelcome, msg, nil); err != nil {
		return nil, err
	}
	return &dto.EmailResponse{Message: "Welcome email sent", Email: req.Email}, nil
}

// TriggerWelcome is the login/signup hook. Unlike SendWelcome it is
// idempotent: a user who already received a welcome email is skipped, so the
// frontend can fire it on every login.
func (s *emailService) TriggerWelcome(ctx context.Context, ident *auth.Identity, req *dto.TriggerWelcomeEmailRequest) (*dto.EmailResponse, error) {
	if err := verifyRecipient(ident, req.Email); err != nil {
		return nil, err
	}

	sent, err := s.emailLogRepo.HasSent(ctx, ident.UserID, common.EmailKindWelcome)
	if err != nil {
		return nil, err
	}
	if sent {
		return &dto.EmailResponse{Message: "Welcome email already sent", Email: req.Email, Skipped: true}, nil
	}

	msg, err := s.composer.Welcome(req.Email, req.UserName)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, ident.UserID, common.EmailKindWelcome, msg, nil); err != nil {
		return nil, err
	}

	s.logger.Info("Welcome email triggered",
		logger.Field("user_id", ident.UserID),
		logger.Field("new_user", req.IsNewUser))
	return &dto.EmailResponse{Message: "Welcome email sent", Email: req.Email}, nil
}

func (s *emailService) SendTradeReminder(ctx context.Context, ident *auth.Identity, req *dto.TradeReminderRequest) (*dto.EmailResponse, error) {
	if err := verifyRecipient(ident, req.Email); err != nil {
		return nil, err
	}
	days := req.DaysInactive
	if days <= 0 {
		days = 7
	}
	msg, err := s.composer.TradeReminder(req.Email, req.UserName, days)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, ident.UserID, common.EmailKindTradeReminder, msg, nil); err != nil {
		return nil, err
	}
	return &dto.EmailResponse{Message: "Trade reminder sent", Email: req.Email}, nil
}

// SendWeeklySummary mails the trailing-7-day summary. When the request
// carries no summary data the service computes it from the caller's trades.
func (s *emailService) SendWeeklySummary(ctx context.Context, ident *auth.Identity, req *dto.WeeklySummaryEmailRequest) (*dto.EmailResponse, error) {
	if err := verifyRecipient(ident, req.Email); err != nil {
		return nil, err
	}

	summary := req.Summary
	if summary == nil {
		weekEnd := time.Now()
		weekStart := weekEnd.AddDate(0, 0, -7)
		from, to := utils.FormatDate(weekStart), utils.FormatDate(weekEnd)
		trades, err := s.tradeRepo.FindSince(ctx, ident.UserID, from)
		if err != nil {
			return nil, err
		}
		window := FilterTradesByDateRange(trades, from, to)
		computed := ComputeWeeklySummary(window, from, to)
		summary = &computed
	}

	msg, err := s.composer.WeeklySummary(req.Email, req.UserName, summary)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(summary)
	if err := s.deliver(ctx, ident.UserID, common.EmailKindWeeklySummary, msg, payload); err != nil {
		return nil, err
	}
	return &dto.EmailResponse{Message: "Weekly summary sent", Email: req.Email}, nil
}

// Resubscribe re-enables emails by clearing nothing server-side (preferences
// live with the identity provider) and confirming with a welcome-style send.
func (s *emailService) Resubscribe(ctx context.Context, ident *auth.Identity, req *dto.EmailRequest) (*dto.EmailResponse, error) {
	if err := verifyRecipient(ident, req.Email); err != nil {
		return nil, err
	}
	msg, err := s.composer.Welcome(req.Email, req.UserName)
	if err != nil {
		return nil, err
	}
	msg.Subject = "You're back on the list"
	if err := s.deliver(ctx, ident.UserID, common.EmailKindWelcome, msg, nil); err != nil {
		return nil, err
	}
	return &dto.EmailResponse{Message: "Resubscribed successfully", Email: req.Email}, nil
}

// deliver sends the message and records the outcome in email_logs. A failed
// send is still logged, with success=false.
func (s *emailService) deliver(ctx context.Context, userID, kind string, msg brevo.Message, payload []byte) error {
	sendErr := s.sender.Send(ctx, msg)

	entry := &entity.EmailLog{
		UserID:  userID,
		Email:   msg.ToEmail,
		Kind:    kind,
		Success: sendErr == nil,
		Payload: datatypes.JSON(payload),
	}
	if err := s.emailLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record email log", logger.ErrorField(err), logger.Field("user_id", userID))
	}

	if sendErr != nil {
		s.logger.Error("Failed to send email",
			logger.ErrorField(sendErr),
			logger.Field("kind", kind),
			logger.Field("user_id", userID))
		return sendErr
	}
	return nil
}

// verifyRecipient stops a caller from pushing email to someone else's inbox.
func verifyRecipient(ident *auth.Identity, target string) error {
	if target == "" {
		return common.NewValidationError("email is required")
	}
	if !strings.EqualFold(ident.Email, target) {
		return common.ErrAccessDenied
	}
	return nil
}
