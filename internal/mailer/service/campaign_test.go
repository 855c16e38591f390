package service

import (
	"context"
	"sync"
	"testing"

	"tradetracker/internal/api/repository"
	"tradetracker/internal/email"
	"tradetracker/internal/entity"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/telegram"
	"tradetracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []brevo.Message
}

func (s *fakeSender) Send(_ context.Context, msg brevo.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

type fixture struct {
	svc       CampaignService
	sender    *fakeSender
	userRepo  *repository.MemoryUserRepository
	tradeRepo *repository.MemoryTradeRepository
	logRepo   *repository.MemoryEmailLogRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	composer, err := email.NewComposer()
	require.NoError(t, err)

	f := &fixture{
		sender:    &fakeSender{},
		userRepo:  repository.NewMemoryUserRepository(),
		tradeRepo: repository.NewMemoryTradeRepository(),
		logRepo:   repository.NewMemoryEmailLogRepository(),
	}
	f.svc = NewCampaignService(f.userRepo, f.tradeRepo, f.logRepo, f.sender, composer,
		telegram.NopNotifier{}, logger.NewNop(), 0)
	return f
}

func (f *fixture) addUser(t *testing.T, id, emailAddr string) {
	t.Helper()
	require.NoError(t, f.userRepo.Upsert(context.Background(), &entity.User{ID: id, Email: emailAddr, DisplayName: id}))
}

func (f *fixture) addClosedTrade(t *testing.T, userID, ticker, date string) {
	t.Helper()
	buy, sell := 100.0, 110.0
	require.NoError(t, f.tradeRepo.Create(context.Background(), &entity.Trade{
		UserID:    userID,
		Ticker:    ticker,
		Date:      date,
		BuyPrice:  &buy,
		SellPrice: &sell,
		Shares:    5,
		Status:    entity.TradeStatusClosed,
	}))
}

func TestRunWeeklySummary_SkipsInactiveUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "active", "active@example.com")
	f.addUser(t, "idle", "idle@example.com")
	f.addClosedTrade(t, "active", "AAPL", utils.DaysAgo(2))
	f.addClosedTrade(t, "idle", "MSFT", "2020-01-01")

	report, err := f.svc.RunWeeklySummary(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "active@example.com", f.sender.sent[0].ToEmail)
	assert.Contains(t, f.sender.sent[0].HTMLContent, "AAPL")
}

func TestRunWeeklySummary_DryRunSendsNothing(t *testing.T) {
	f := newFixture(t)

	f.addUser(t, "active", "active@example.com")
	f.addClosedTrade(t, "active", "AAPL", utils.DaysAgo(1))

	report, err := f.svc.RunWeeklySummary(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, f.sender.sent)
}

func TestRunWeeklySummary_TestEmailRedirect(t *testing.T) {
	f := newFixture(t)

	f.addUser(t, "active", "active@example.com")
	f.addClosedTrade(t, "active", "AAPL", utils.DaysAgo(1))

	_, err := f.svc.RunWeeklySummary(context.Background(), Options{TestEmail: "qa@example.com"})
	require.NoError(t, err)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "qa@example.com", f.sender.sent[0].ToEmail)
}

func TestRunReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "stale", "stale@example.com")
	f.addUser(t, "fresh", "fresh@example.com")
	f.addUser(t, "empty", "empty@example.com")
	f.addClosedTrade(t, "stale", "AAPL", utils.DaysAgo(30))
	f.addClosedTrade(t, "fresh", "MSFT", utils.DaysAgo(1))

	report, err := f.svc.RunReminders(ctx, 7, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	// Fresh user and the user with no trades at all are both skipped.
	assert.Equal(t, 2, report.Skipped)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "stale@example.com", f.sender.sent[0].ToEmail)

	// The send is recorded for campaign reporting.
	sent, err := f.logRepo.HasSent(ctx, "stale", "trade_reminder")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRunUpdateEmails(t *testing.T) {
	f := newFixture(t)

	f.addUser(t, "a", "a@example.com")
	f.addUser(t, "b", "b@example.com")

	report, err := f.svc.RunUpdateEmails(context.Background(), "New charts", "", "We shipped candlestick charts.", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)

	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, "New charts", f.sender.sent[0].Subject)
	// Headline defaults to the subject when omitted.
	assert.Contains(t, f.sender.sent[0].HTMLContent, "New charts")
}

func TestRunUpdateEmails_RequiresSubjectAndBody(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RunUpdateEmails(context.Background(), "", "", "", Options{})
	assert.Error(t, err)
}

func TestRunWeeklySummary_Limit(t *testing.T) {
	f := newFixture(t)

	f.addUser(t, "u1", "u1@example.com")
	f.addUser(t, "u2", "u2@example.com")
	f.addClosedTrade(t, "u1", "AAPL", utils.DaysAgo(1))
	f.addClosedTrade(t, "u2", "MSFT", utils.DaysAgo(1))

	report, err := f.svc.RunWeeklySummary(context.Background(), Options{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent+report.Skipped)
}
