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

func TestGetFeesConfig_DefaultsWhenUnset(t *testing.T) {
	svc := NewFeesService(repository.NewMemoryFeesConfigRepository(), logger.NewNop())

	cfg, err := svc.GetFeesConfig(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cfg.UserID)
	assert.InDelta(t, 0.25, cfg.BrokeragePercentage, 1e-9)
	assert.InDelta(t, 25.0, cfg.BrokerageMaxUSD, 1e-9)
}

func TestSaveFeesConfig(t *testing.T) {
	svc := NewFeesService(repository.NewMemoryFeesConfigRepository(), logger.NewNop())
	ctx := context.Background()

	err := svc.SaveFeesConfig(ctx, "user-1", &dto.SaveFeesConfigRequest{
		BrokeragePercentage: 0.5,
		BrokerageMaxUSD:     20,
		PlatformFeeUSD:      1,
	})
	require.NoError(t, err)

	cfg, err := svc.GetFeesConfig(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.BrokeragePercentage, 1e-9)
	assert.InDelta(t, 20.0, cfg.BrokerageMaxUSD, 1e-9)
}

func TestSaveFeesConfig_Validation(t *testing.T) {
	svc := NewFeesService(repository.NewMemoryFeesConfigRepository(), logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.SaveFeesConfigRequest
	}{
		{"brokerage above cap", dto.SaveFeesConfigRequest{BrokeragePercentage: 11}},
		{"negative brokerage", dto.SaveFeesConfigRequest{BrokeragePercentage: -1}},
		{"negative flat fee", dto.SaveFeesConfigRequest{BrokeragePercentage: 0.25, PlatformFeeUSD: -3}},
		{"negative percentage fee", dto.SaveFeesConfigRequest{BrokeragePercentage: 0.25, IFSCATurnoverFeesPercentage: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveFeesConfig(ctx, "user-1", &tt.req)
			assert.True(t, common.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}
