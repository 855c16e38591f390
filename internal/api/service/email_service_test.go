package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/email"
	"tradetracker/internal/entity"
	"tradetracker/pkg/auth"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []brevo.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg brevo.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newEmailFixture(t *testing.T) (EmailService, *recordingSender, *repository.MemoryTradeRepository, *repository.MemoryEmailLogRepository) {
	t.Helper()
	composer, err := email.NewComposer()
	require.NoError(t, err)

	sender := &recordingSender{}
	tradeRepo := repository.NewMemoryTradeRepository()
	emailLogRepo := repository.NewMemoryEmailLogRepository()
	svc := NewEmailService(sender, composer, tradeRepo, emailLogRepo, logger.NewNop())
	return svc, sender, tradeRepo, emailLogRepo
}

var testIdent = &auth.Identity{UserID: "user-1", Email: "trader@example.com", Name: "Jo"}

func TestTriggerWelcome_DedupesAfterFirstSend(t *testing.T) {
	svc, sender, _, _ := newEmailFixture(t)
	ctx := context.Background()

	req := &dto.TriggerWelcomeEmailRequest{Email: "trader@example.com", UserName: "Jo", IsNewUser: true}

	first, err := svc.TriggerWelcome(ctx, testIdent, req)
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := svc.TriggerWelcome(ctx, testIdent, req)
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTMLContent, "Jo")
}

func TestTriggerWelcome_FailedSendDoesNotDedupe(t *testing.T) {
	svc, sender, _, logs := newEmailFixture(t)
	ctx := context.Background()

	sender.err = errors.New("provider down")
	req := &dto.TriggerWelcomeEmailRequest{Email: "trader@example.com"}

	_, err := svc.TriggerWelcome(ctx, testIdent, req)
	require.Error(t, err)

	// The failure is logged with success=false, so the next attempt sends.
	sent, err := logs.HasSent(ctx, "user-1", common.EmailKindWelcome)
	require.NoError(t, err)
	assert.False(t, sent)

	sender.err = nil
	resp, err := svc.TriggerWelcome(ctx, testIdent, req)
	require.NoError(t, err)
	assert.False(t, resp.Skipped)
}

func TestEmailTriggers_RejectForeignRecipient(t *testing.T) {
	svc, sender, _, _ := newEmailFixture(t)
	ctx := context.Background()

	_, err := svc.SendWelcome(ctx, testIdent, &dto.EmailRequest{Email: "victim@example.com"})
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = svc.SendTradeReminder(ctx, testIdent, &dto.TradeReminderRequest{Email: "victim@example.com"})
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = svc.SendWelcome(ctx, testIdent, &dto.EmailRequest{})
	assert.True(t, common.IsValidation(err))

	assert.Empty(t, sender.sent)
}

func TestSendWeeklySummary_ComputesWhenMissing(t *testing.T) {
	svc, sender, tradeRepo, _ := newEmailFixture(t)
	ctx := context.Background()

	sell := 120.0
	require.NoError(t, tradeRepo.Create(ctx, &entity.Trade{
		UserID:    "user-1",
		Date:      utils.DaysAgo(2),
		Ticker:    "AAPL",
		BuyPrice:  ptr(100),
		SellPrice: &sell,
		Shares:    5,
		Status:    entity.TradeStatusClosed,
	}))

	resp, err := svc.SendWeeklySummary(ctx, testIdent, &dto.WeeklySummaryEmailRequest{Email: "trader@example.com", UserName: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, "trader@example.com", resp.Email)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "weekly trading summary")
	assert.Contains(t, sender.sent[0].HTMLContent, "AAPL")
}

func TestSendTradeReminder_DefaultsDays(t *testing.T) {
	svc, sender, _, _ := newEmailFixture(t)

	_, err := svc.SendTradeReminder(context.Background(), testIdent, &dto.TradeReminderRequest{Email: "trader@example.com"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTMLContent, "7 days")
}
