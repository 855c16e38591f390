package service

import (
	"context"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/pkg/logger"
)

// MetricsService computes performance metrics over a user's trades.
type MetricsService interface {
	GetMetrics(ctx context.Context, userID, fromDate, toDate string) (*dto.TradeMetrics, error)
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(tradeRepo repository.TradeRepository, cache *MetricsCache, log *logger.Logger) MetricsService {
	return &metricsService{tradeRepo: tradeRepo, cache: cache, logger: log}
}

type metricsService struct {
	tradeRepo repository.TradeRepository
	cache     *MetricsCache
	logger    *logger.Logger
}

func (s *metricsService) GetMetrics(ctx context.Context, userID, fromDate, toDate string) (*dto.TradeMetrics, error) {
	if cached := s.cache.Get(ctx, userID, fromDate, toDate); cached != nil {
		return cached, nil
	}

	trades, err := s.tradeRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load trades for metrics", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}

	filtered := FilterTradesByDateRange(trades, fromDate, toDate)
	metrics := ComputeTradeMetrics(filtered)

	s.cache.Set(ctx, userID, fromDate, toDate, &metrics)
	return &metrics, nil
}
