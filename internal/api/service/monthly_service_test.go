package service

import (
	"context"
	"testing"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMonthlyFixture() MonthlyService {
	return NewMonthlyService(
		repository.NewMemoryMonthlyReturnRepository(),
		repository.NewMemoryMonthlyBalanceRepository(),
		logger.NewNop(),
	)
}

func TestSaveMonthlyReturn_UpsertSameMonth(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	first, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{
		Month:    "2025-06-01",
		StartCap: 10000,
		CloseCap: ptr(11000),
	})
	require.NoError(t, err)

	second, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{
		Month:    "2025-06-01",
		StartCap: 10000,
		CloseCap: ptr(12000),
		Comments: "revised",
	})
	require.NoError(t, err)
	// Same month updates in place instead of duplicating.
	assert.Equal(t, first.ReturnID, second.ReturnID)

	returns, err := svc.GetMonthlyReturns(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, "revised", returns[0].Comments)
	require.NotNil(t, returns[0].CloseCap)
	assert.InDelta(t, 12000.0, *returns[0].CloseCap, 1e-9)
}

func TestSaveMonthlyReturn_DerivesReturns(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	_, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{
		Month:    "2025-06-01",
		StartCap: 10000,
		CloseCap: ptr(11500),
	})
	require.NoError(t, err)

	returns, err := svc.GetMonthlyReturns(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, returns, 1)
	require.NotNil(t, returns[0].PercentageReturn)
	assert.InDelta(t, 15.0, *returns[0].PercentageReturn, 1e-9)
	require.NotNil(t, returns[0].DollarReturn)
	assert.InDelta(t, 1500.0, *returns[0].DollarReturn, 1e-9)
}

func TestSaveMonthlyReturn_ExplicitReturnsNotOverwritten(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	_, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{
		Month:            "2025-06-01",
		StartCap:         10000,
		CloseCap:         ptr(11500),
		PercentageReturn: ptr(14.0),
	})
	require.NoError(t, err)

	returns, _ := svc.GetMonthlyReturns(ctx, "user-1")
	require.Len(t, returns, 1)
	assert.InDelta(t, 14.0, *returns[0].PercentageReturn, 1e-9)
}

func TestSaveMonthlyReturn_Validation(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	_, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{StartCap: 10000})
	assert.True(t, common.IsValidation(err))

	_, err = svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{Month: "2025-06-01"})
	assert.True(t, common.IsValidation(err))
}

func TestDeleteMonthlyReturn_OwnerEnforced(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	resp, err := svc.SaveMonthlyReturn(ctx, "user-1", &dto.SaveMonthlyReturnRequest{Month: "2025-06-01", StartCap: 10000})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMonthlyReturn(ctx, "user-2", resp.ReturnID), common.ErrAccessDenied)
	assert.NoError(t, svc.DeleteMonthlyReturn(ctx, "user-1", resp.ReturnID))
	assert.ErrorIs(t, svc.DeleteMonthlyReturn(ctx, "user-1", resp.ReturnID), common.ErrNotFound)
}

func TestSaveMonthlyBalance_UpsertAndValidation(t *testing.T) {
	svc := newMonthlyFixture()
	ctx := context.Background()

	first, err := svc.SaveMonthlyBalance(ctx, "user-1", &dto.SaveMonthlyBalanceRequest{
		Month:        "2025-06-01",
		StartBalance: 10000,
		Deposits:     500,
	})
	require.NoError(t, err)

	second, err := svc.SaveMonthlyBalance(ctx, "user-1", &dto.SaveMonthlyBalanceRequest{
		Month:        "2025-06-01",
		StartBalance: 10000,
		CloseBalance: ptr(10800),
	})
	require.NoError(t, err)
	assert.Equal(t, first.BalanceID, second.BalanceID)

	balances, err := svc.GetMonthlyBalances(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, balances, 1)

	_, err = svc.SaveMonthlyBalance(ctx, "user-1", &dto.SaveMonthlyBalanceRequest{
		Month: "2025-07-01", StartBalance: 10000, Withdrawals: -5,
	})
	assert.True(t, common.IsValidation(err))
}
