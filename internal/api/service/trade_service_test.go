package service

import (
	"context"
	"testing"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTradeFixture() (TradeService, *repository.MemoryTradeRepository, *repository.MemoryProfileRepository) {
	tradeRepo := repository.NewMemoryTradeRepository()
	profileRepo := repository.NewMemoryProfileRepository()
	svc := NewTradeService(tradeRepo, profileRepo, nil, logger.NewNop())
	return svc, tradeRepo, profileRepo
}

func TestAddTrade_Validation(t *testing.T) {
	svc, _, _ := newTradeFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.AddTradeRequest
	}{
		{
			name: "open trade without buy price",
			req:  dto.AddTradeRequest{Ticker: "aapl", Shares: 10, Risk: ptr(2), Status: entity.TradeStatusOpen},
		},
		{
			name: "closed trade without sell price",
			req:  dto.AddTradeRequest{Ticker: "aapl", Shares: 10, BuyPrice: ptr(100), Risk: ptr(2), Status: entity.TradeStatusClosed},
		},
		{
			name: "neither risk nor risk dollars",
			req:  dto.AddTradeRequest{Ticker: "aapl", Shares: 10, BuyPrice: ptr(100), Status: entity.TradeStatusOpen},
		},
		{
			name: "zero buy price treated as absent",
			req:  dto.AddTradeRequest{Ticker: "aapl", Shares: 10, BuyPrice: ptr(0), Risk: ptr(2), Status: entity.TradeStatusOpen},
		},
		{
			name: "unknown status",
			req:  dto.AddTradeRequest{Ticker: "aapl", Shares: 10, BuyPrice: ptr(100), Risk: ptr(2), Status: "pending"},
		},
		{
			name: "malformed date",
			req:  dto.AddTradeRequest{Ticker: "aapl", Date: "06/15/2025", Shares: 10, BuyPrice: ptr(100), Risk: ptr(2), Status: entity.TradeStatusOpen},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTrade(ctx, "user-1", &tt.req)
			assert.True(t, common.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestAddTrade_DerivesRiskDollarsFromPercent(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker:   "aapl",
		Date:     "2025-06-15",
		BuyPrice: ptr(100),
		Shares:   10,
		Risk:     ptr(2),
		Status:   entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	trade, err := tradeRepo.FindByID(ctx, resp.TradeID)
	require.NoError(t, err)
	// No profile: balance falls back to 10000, so 2% risk is $200.
	require.NotNil(t, trade.RiskDollars)
	assert.InDelta(t, 200.0, *trade.RiskDollars, 1e-9)
	require.NotNil(t, trade.AccountBalance)
	assert.InDelta(t, common.DefaultAccountBalance, *trade.AccountBalance, 1e-9)
	assert.Equal(t, "AAPL", trade.Ticker)
	assert.Equal(t, "user-1", trade.UserID)
}

func TestAddTrade_DerivesRiskPercentFromDollars(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker:      "msft",
		Date:        "2025-06-15",
		BuyPrice:    ptr(100),
		Shares:      10,
		RiskDollars: ptr(150),
		Status:      entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	trade, err := tradeRepo.FindByID(ctx, resp.TradeID)
	require.NoError(t, err)
	// $150 of a $10000 balance is 1.5%.
	require.NotNil(t, trade.Risk)
	assert.InDelta(t, 1.5, *trade.Risk, 1e-9)
}

func TestAddTrade_BalanceResolutionOrder(t *testing.T) {
	svc, tradeRepo, profileRepo := newTradeFixture()
	ctx := context.Background()

	require.NoError(t, profileRepo.Upsert(ctx, &entity.UserProfile{UserID: "user-1", AccountBalance: 50000}))

	// Payload balance wins over the profile.
	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker:         "nvda",
		Date:           "2025-06-15",
		BuyPrice:       ptr(100),
		Shares:         10,
		Risk:           ptr(1),
		AccountBalance: ptr(20000),
		Status:         entity.TradeStatusOpen,
	})
	require.NoError(t, err)
	trade, _ := tradeRepo.FindByID(ctx, resp.TradeID)
	assert.InDelta(t, 200.0, *trade.RiskDollars, 1e-9)

	// Without a payload balance the profile is used.
	resp, err = svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker:   "amd",
		Date:     "2025-06-15",
		BuyPrice: ptr(100),
		Shares:   10,
		Risk:     ptr(1),
		Status:   entity.TradeStatusOpen,
	})
	require.NoError(t, err)
	trade, _ = tradeRepo.FindByID(ctx, resp.TradeID)
	assert.InDelta(t, 500.0, *trade.RiskDollars, 1e-9)
}

func TestExitTrade_Full(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Notes: "breakout entry", Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	exitResp, err := svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{
		Ticker: "aapl", SharesToExit: 10, SellPrice: 120, Notes: "target hit",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.TradeID, exitResp.TradeID)
	assert.Empty(t, exitResp.ExitTradeID)

	trade, err := tradeRepo.FindByID(ctx, resp.TradeID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusClosed, trade.Status)
	require.NotNil(t, trade.SellPrice)
	assert.InDelta(t, 120.0, *trade.SellPrice, 1e-9)
	require.NotNil(t, trade.ExitDate)
	assert.Equal(t, "breakout entry | Exit: target hit", trade.Notes)
}

func TestExitTrade_FullWithoutNotesKeepsOriginal(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Notes: "entry", Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	_, err = svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{Ticker: "AAPL", SharesToExit: 10, SellPrice: 110})
	require.NoError(t, err)

	trade, _ := tradeRepo.FindByID(ctx, resp.TradeID)
	assert.Equal(t, "entry", trade.Notes)
}

func TestExitTrade_Partial(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Notes: "entry", Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	exitResp, err := svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{
		Ticker: "aapl", SharesToExit: 4, SellPrice: 120, Notes: "trimming",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.TradeID, exitResp.RemainingTradeID)
	assert.InDelta(t, 6.0, exitResp.RemainingShares, 1e-9)
	require.NotEmpty(t, exitResp.ExitTradeID)

	// Original keeps the remainder and stays open.
	original, err := tradeRepo.FindByID(ctx, resp.TradeID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusOpen, original.Status)
	assert.InDelta(t, 6.0, original.Shares, 1e-9)

	// The new closed leg copies the entry fields from the original.
	leg, err := tradeRepo.FindByID(ctx, exitResp.ExitTradeID)
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusClosed, leg.Status)
	assert.Equal(t, original.Date, leg.Date)
	assert.InDelta(t, 4.0, leg.Shares, 1e-9)
	require.NotNil(t, leg.BuyPrice)
	assert.InDelta(t, 100.0, *leg.BuyPrice, 1e-9)
	require.NotNil(t, leg.SellPrice)
	assert.InDelta(t, 120.0, *leg.SellPrice, 1e-9)
	assert.Equal(t, "entry | Partial exit: trimming", leg.Notes)
	assert.Equal(t, original.CreatedAt, leg.CreatedAt)
}

func TestExitTrade_PartialWithEmptyNotesStillAnnotates(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	_, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	exitResp, err := svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{Ticker: "AAPL", SharesToExit: 3, SellPrice: 110})
	require.NoError(t, err)

	leg, _ := tradeRepo.FindByID(ctx, exitResp.ExitTradeID)
	assert.Equal(t, "Partial exit:", leg.Notes)
}

func TestExitTrade_EpsilonRemainderIsFullExit(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	// 0.1 + 0.2 stores 0.30000000000000004; exiting 0.3 leaves a positive
	// residue below the epsilon, which must close the trade outright.
	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 0.1 + 0.2,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	exitResp, err := svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{Ticker: "AAPL", SharesToExit: 0.3, SellPrice: 110})
	require.NoError(t, err)
	assert.Empty(t, exitResp.ExitTradeID)

	trade, _ := tradeRepo.FindByID(ctx, resp.TradeID)
	assert.Equal(t, entity.TradeStatusClosed, trade.Status)
}

func TestExitTrade_OverExit(t *testing.T) {
	svc, _, _ := newTradeFixture()
	ctx := context.Background()

	_, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	_, err = svc.ExitTrade(ctx, "user-1", &dto.ExitTradeRequest{Ticker: "AAPL", SharesToExit: 11, SellPrice: 110})
	assert.True(t, common.IsValidation(err))
}

func TestExitTrade_NoOpenPosition(t *testing.T) {
	svc, _, _ := newTradeFixture()

	_, err := svc.ExitTrade(context.Background(), "user-1", &dto.ExitTradeRequest{Ticker: "AAPL", SharesToExit: 1, SellPrice: 110})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateTrade_MergedValidation(t *testing.T) {
	svc, _, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	// Flipping to closed without a sell price fails against the merged record.
	closed := entity.TradeStatusClosed
	err = svc.UpdateTrade(ctx, "user-1", resp.TradeID, &dto.UpdateTradeRequest{Status: &closed})
	assert.True(t, common.IsValidation(err))

	// With a sell price the same patch succeeds.
	err = svc.UpdateTrade(ctx, "user-1", resp.TradeID, &dto.UpdateTradeRequest{Status: &closed, SellPrice: ptr(120)})
	assert.NoError(t, err)
}

func TestUpdateTrade_OwnerEnforced(t *testing.T) {
	svc, _, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	notes := "mine now"
	err = svc.UpdateTrade(ctx, "user-2", resp.TradeID, &dto.UpdateTradeRequest{Notes: &notes})
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestDeleteTrade(t *testing.T) {
	svc, tradeRepo, _ := newTradeFixture()
	ctx := context.Background()

	resp, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
		Ticker: "aapl", Date: "2025-06-15", BuyPrice: ptr(100), Shares: 10,
		Risk: ptr(2), Status: entity.TradeStatusOpen,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteTrade(ctx, "user-2", resp.TradeID), common.ErrAccessDenied)
	assert.NoError(t, svc.DeleteTrade(ctx, "user-1", resp.TradeID))

	_, err = tradeRepo.FindByID(ctx, resp.TradeID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteTrade(ctx, "user-1", "missing"), common.ErrNotFound)
}

func TestGetTrades_DateWindow(t *testing.T) {
	svc, _, _ := newTradeFixture()
	ctx := context.Background()

	for _, d := range []string{"2025-01-10", "2025-02-10", "2025-03-10"} {
		_, err := svc.AddTrade(ctx, "user-1", &dto.AddTradeRequest{
			Ticker: "aapl", Date: d, BuyPrice: ptr(100), Shares: 1,
			Risk: ptr(2), Status: entity.TradeStatusOpen,
		})
		require.NoError(t, err)
	}

	trades, err := svc.GetTrades(ctx, "user-1", "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "2025-02-10", trades[0].Date)
}
