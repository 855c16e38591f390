package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradetracker/internal/api/repository"
	apiservice "tradetracker/internal/api/service"
	"tradetracker/internal/email"
	"tradetracker/internal/entity"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/telegram"
	"tradetracker/pkg/utils"

	"golang.org/x/time/rate"
	"gorm.io/datatypes"
)

// Options control a single campaign run.
type Options struct {
	// DryRun resolves the audience and renders messages without sending.
	DryRun bool
	// TestEmail redirects every message to this address.
	TestEmail string
	// Limit caps how many users are processed; 0 means all.
	Limit int
}

// Report summarizes a campaign run.
type Report struct {
	Campaign string
	Sent     int
	Skipped  int
	Failed   int
}

func (r Report) String() string {
	return fmt.Sprintf("%s campaign: %d sent, %d skipped, %d failed", r.Campaign, r.Sent, r.Skipped, r.Failed)
}

// CampaignService runs the batch email campaigns: weekly summaries,
// inactivity reminders and product announcements.
type CampaignService interface {
	RunWeeklySummary(ctx context.Context, opts Options) (Report, error)
	RunReminders(ctx context.Context, afterDays int, opts Options) (Report, error)
	RunUpdateEmails(ctx context.Context, subject, headline, body string, opts Options) (Report, error)
}

// NewCampaignService creates a new campaign service. sendRate throttles
// outbound email in messages per second; zero or negative disables the
// throttle.
func NewCampaignService(
	userRepo repository.UserRepository,
	tradeRepo repository.TradeRepository,
	emailLogRepo repository.EmailLogRepository,
	sender brevo.Sender,
	composer *email.Composer,
	notifier telegram.Notifier,
	log *logger.Logger,
	sendRate float64,
) CampaignService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if sendRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(sendRate), 1)
	}
	return &campaignService{
		userRepo:     userRepo,
		tradeRepo:    tradeRepo,
		emailLogRepo: emailLogRepo,
		sender:       sender,
		composer:     composer,
		notifier:     notifier,
		logger:       log,
		limiter:      limiter,
	}
}

type campaignService struct {
	userRepo     repository.UserRepository
	tradeRepo    repository.TradeRepository
	emailLogRepo repository.EmailLogRepository
	sender       brevo.Sender
	composer     *email.Composer
	notifier     telegram.Notifier
	logger       *logger.Logger
	limiter      *rate.Limiter
}

// RunWeeklySummary mails each user their trailing-7-day summary. Users with
// no activity in the window are skipped rather than sent an empty report.
func (s *campaignService) RunWeeklySummary(ctx context.Context, opts Options) (Report, error) {
	report := Report{Campaign: "weekly-summary"}

	users, err := s.userRepo.FindAll(ctx, opts.Limit)
	if err != nil {
		return report, err
	}

	weekEnd := time.Now()
	weekStart := weekEnd.AddDate(0, 0, -7)
	from, to := utils.FormatDate(weekStart), utils.FormatDate(weekEnd)

	for _, user := range users {
		trades, err := s.tradeRepo.FindSince(ctx, user.ID, from)
		if err != nil {
			s.logger.Error("Failed to load trades", logger.ErrorField(err), logger.Field("user_id", user.ID))
			report.Failed++
			continue
		}
		window := apiservice.FilterTradesByDateRange(trades, from, to)
		if len(window) == 0 {
			report.Skipped++
			continue
		}
		summary := apiservice.ComputeWeeklySummary(window, from, to)

		msg, err := s.composer.WeeklySummary(user.Email, user.DisplayName, &summary)
		if err != nil {
			report.Failed++
			continue
		}
		payload, _ := json.Marshal(summary)
		s.dispatch(ctx, &report, user, common.EmailKindWeeklySummary, msg, payload, opts)
	}

	s.finish(report)
	return report, nil
}

// RunReminders nudges users whose latest trade activity is older than
// afterDays. Users who never logged a trade are left alone; the welcome
// email already points them at the journal.
func (s *campaignService) RunReminders(ctx context.Context, afterDays int, opts Options) (Report, error) {
	report := Report{Campaign: "reminders"}
	if afterDays <= 0 {
		afterDays = 7
	}

	users, err := s.userRepo.FindAll(ctx, opts.Limit)
	if err != nil {
		return report, err
	}

	cutoff := utils.DaysAgo(afterDays)

	for _, user := range users {
		trades, err := s.tradeRepo.FindByUser(ctx, user.ID)
		if err != nil {
			s.logger.Error("Failed to load trades", logger.ErrorField(err), logger.Field("user_id", user.ID))
			report.Failed++
			continue
		}
		latest := latestActivity(trades)
		if latest == "" || latest > cutoff {
			report.Skipped++
			continue
		}
		days := daysSince(latest)

		msg, err := s.composer.TradeReminder(user.Email, user.DisplayName, days)
		if err != nil {
			report.Failed++
			continue
		}
		s.dispatch(ctx, &report, user, common.EmailKindTradeReminder, msg, nil, opts)
	}

	s.finish(report)
	return report, nil
}

// RunUpdateEmails sends a product announcement to every user.
func (s *campaignService) RunUpdateEmails(ctx context.Context, subject, headline, body string, opts Options) (Report, error) {
	report := Report{Campaign: "update-emails"}
	if subject == "" || body == "" {
		return report, fmt.Errorf("subject and body are required")
	}
	if headline == "" {
		headline = subject
	}

	users, err := s.userRepo.FindAll(ctx, opts.Limit)
	if err != nil {
		return report, err
	}

	for _, user := range users {
		msg, err := s.composer.Update(user.Email, user.DisplayName, subject, headline, body)
		if err != nil {
			report.Failed++
			continue
		}
		s.dispatch(ctx, &report, user, common.EmailKindUpdate, msg, nil, opts)
	}

	s.finish(report)
	return report, nil
}

// dispatch applies dry-run and test-redirect options, throttles, sends and
// records the outcome.
func (s *campaignService) dispatch(ctx context.Context, report *Report, user entity.User, kind string, msg brevo.Message, payload []byte, opts Options) {
	if opts.TestEmail != "" {
		msg.ToEmail = opts.TestEmail
	}

	if opts.DryRun {
		s.logger.Info("Dry run: would send email",
			logger.Field("kind", kind),
			logger.Field("to", msg.ToEmail),
			logger.Field("subject", msg.Subject))
		report.Skipped++
		return
	}

	if err := s.limiter.Wait(ctx); err != nil {
		report.Failed++
		return
	}

	sendErr := s.sender.Send(ctx, msg)

	entry := &entity.EmailLog{
		UserID:  user.ID,
		Email:   msg.ToEmail,
		Kind:    kind,
		Success: sendErr == nil,
		Payload: datatypes.JSON(payload),
	}
	if err := s.emailLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record email log", logger.ErrorField(err), logger.Field("user_id", user.ID))
	}

	if sendErr != nil {
		s.logger.Error("Failed to send campaign email",
			logger.ErrorField(sendErr),
			logger.Field("kind", kind),
			logger.Field("user_id", user.ID))
		report.Failed++
		return
	}
	report.Sent++
}

func (s *campaignService) finish(report Report) {
	s.logger.Info("Campaign finished",
		logger.Field("campaign", report.Campaign),
		logger.IntField("sent", report.Sent),
		logger.IntField("skipped", report.Skipped),
		logger.IntField("failed", report.Failed))
	if err := s.notifier.SendMessage(report.String()); err != nil {
		s.logger.Warn("Failed to notify ops channel", logger.ErrorField(err))
	}
}

// latestActivity returns the most recent activity date across the user's
// trades, empty when they have none.
func latestActivity(trades []entity.Trade) string {
	latest := ""
	for i := range trades {
		if d := trades[i].ActivityDate(); d > latest {
			latest = d
		}
	}
	return latest
}

func daysSince(date string) int {
	t, err := utils.ParseDate(date)
	if err != nil {
		return 0
	}
	return int(time.Since(t).Hours() / 24)
}
