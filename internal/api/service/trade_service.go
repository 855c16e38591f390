package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/utils"
)

// shareEpsilon absorbs floating-point error from fractional-share
// arithmetic: a remainder smaller than this is a full exit.
const shareEpsilon = 1e-10

// TradeService manages the trade lifecycle: entry, full/partial exit,
// partial update, deletion and date-windowed listing.
type TradeService interface {
	AddTrade(ctx context.Context, userID string, req *dto.AddTradeRequest) (*dto.AddTradeResponse, error)
	ExitTrade(ctx context.Context, userID string, req *dto.ExitTradeRequest) (*dto.ExitTradeResponse, error)
	UpdateTrade(ctx context.Context, userID, tradeID string, req *dto.UpdateTradeRequest) error
	DeleteTrade(ctx context.Context, userID, tradeID string) error
	GetTrades(ctx context.Context, userID, fromDate, toDate string) ([]entity.Trade, error)
}

// NewTradeService creates a new trade service.
func NewTradeService(
	tradeRepo repository.TradeRepository,
	profileRepo repository.ProfileRepository,
	cache *MetricsCache,
	log *logger.Logger,
) TradeService {
	return &tradeService{
		tradeRepo:   tradeRepo,
		profileRepo: profileRepo,
		cache:       cache,
		logger:      log,
	}
}

type tradeService struct {
	tradeRepo   repository.TradeRepository
	profileRepo repository.ProfileRepository
	cache       *MetricsCache
	logger      *logger.Logger
}

// AddTrade validates and persists a new trade. The owner is always the
// authenticated caller; any owner id in the payload is discarded.
func (s *tradeService) AddTrade(ctx context.Context, userID string, req *dto.AddTradeRequest) (*dto.AddTradeResponse, error) {
	if err := validateEntry(req.Status, req.BuyPrice, req.SellPrice, req.Risk, req.RiskDollars); err != nil {
		return nil, err
	}
	if req.Date != "" && !utils.IsValidDate(req.Date) {
		return nil, common.NewValidationError("date must be formatted as YYYY-MM-DD")
	}

	trade := &entity.Trade{
		UserID:         userID,
		Date:           req.Date,
		Ticker:         strings.ToUpper(req.Ticker),
		BuyPrice:       req.BuyPrice,
		SellPrice:      req.SellPrice,
		Shares:         req.Shares,
		Risk:           req.Risk,
		RiskDollars:    req.RiskDollars,
		AccountBalance: req.AccountBalance,
		Notes:          req.Notes,
		Status:         req.Status,
	}
	if trade.Date == "" {
		trade.Date = utils.FormatDate(time.Now())
	}

	balance := s.resolveAccountBalance(ctx, userID, req.AccountBalance)
	deriveRisk(trade, balance)

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		s.logger.Error("Failed to create trade", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)

	s.logger.Info("Trade added",
		logger.Field("trade_id", trade.ID),
		logger.Field("user_id", userID),
		logger.Field("ticker", trade.Ticker))

	return &dto.AddTradeResponse{Message: "Trade added successfully", TradeID: trade.ID}, nil
}

// ExitTrade closes all or part of the open position for a ticker. A partial
// exit issues two independent writes (new closed leg, then the decremented
// original); they are not atomic and a crash between them can leave the two
// records individually valid but jointly inconsistent.
func (s *tradeService) ExitTrade(ctx context.Context, userID string, req *dto.ExitTradeRequest) (*dto.ExitTradeResponse, error) {
	ticker := strings.ToUpper(req.Ticker)

	open, err := s.tradeRepo.FindOpenByTicker(ctx, userID, ticker)
	if err != nil {
		if err == common.ErrNotFound {
			return nil, fmt.Errorf("no open trade found for %s: %w", ticker, common.ErrNotFound)
		}
		return nil, err
	}

	if req.SharesToExit > open.Shares {
		return nil, common.NewValidationError("cannot exit %g shares, only %g shares available", req.SharesToExit, open.Shares)
	}

	remaining := open.Shares - req.SharesToExit
	if math.Abs(remaining) < shareEpsilon {
		remaining = 0
	}

	now := time.Now()
	exitDate := utils.FormatDate(now)

	if remaining == 0 {
		// Full exit: mutate the record in place.
		open.SellPrice = &req.SellPrice
		open.Status = entity.TradeStatusClosed
		open.ExitDate = &exitDate
		open.Shares = req.SharesToExit
		if req.Notes != "" {
			open.Notes = joinNotes(open.Notes, "Exit: "+req.Notes)
		}
		if err := s.tradeRepo.Save(ctx, open); err != nil {
			s.logger.Error("Failed to close trade", logger.ErrorField(err), logger.Field("trade_id", open.ID))
			return nil, err
		}
		s.cache.Invalidate(ctx, userID)

		s.logger.Info("Trade fully exited",
			logger.Field("trade_id", open.ID),
			logger.Field("ticker", ticker),
			logger.Field("shares", req.SharesToExit))

		return &dto.ExitTradeResponse{
			Message: fmt.Sprintf("Trade fully exited: %g shares of %s", req.SharesToExit, ticker),
			TradeID: open.ID,
		}, nil
	}

	// Partial exit: a new closed leg carries the original entry date, buy
	// price and risk fields; the original lot keeps the remainder and stays
	// open. Two independently-queryable records result.
	leg := &entity.Trade{
		UserID:      userID,
		Date:        open.Date,
		ExitDate:    &exitDate,
		Ticker:      ticker,
		BuyPrice:    open.BuyPrice,
		SellPrice:   &req.SellPrice,
		Shares:      req.SharesToExit,
		Risk:        open.Risk,
		RiskDollars: open.RiskDollars,
		Notes:       joinNotes(open.Notes, "Partial exit: "+req.Notes),
		Status:      entity.TradeStatusClosed,
		CreatedAt:   open.CreatedAt,
	}
	if err := s.tradeRepo.Create(ctx, leg); err != nil {
		s.logger.Error("Failed to create exit leg", logger.ErrorField(err), logger.Field("ticker", ticker))
		return nil, err
	}

	open.Shares = remaining
	if err := s.tradeRepo.Save(ctx, open); err != nil {
		s.logger.Error("Failed to update remaining shares", logger.ErrorField(err), logger.Field("trade_id", open.ID))
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)

	s.logger.Info("Trade partially exited",
		logger.Field("ticker", ticker),
		logger.Field("exited", req.SharesToExit),
		logger.Field("remaining", remaining))

	return &dto.ExitTradeResponse{
		Message:          fmt.Sprintf("Partial exit successful: %g shares exited, %g shares remaining", req.SharesToExit, remaining),
		ExitTradeID:      leg.ID,
		RemainingTradeID: open.ID,
		RemainingShares:  remaining,
	}, nil
}

// UpdateTrade applies a partial update. Entry validation runs against the
// merged result, not the delta: clearing to an invalid combination fails
// even when the request alone looks harmless.
func (s *tradeService) UpdateTrade(ctx context.Context, userID, tradeID string, req *dto.UpdateTradeRequest) error {
	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.UserID != userID {
		s.logger.Warn("Trade update denied",
			logger.Field("trade_id", tradeID),
			logger.Field("caller", userID),
			logger.Field("owner", trade.UserID))
		return common.ErrAccessDenied
	}

	if req.Date != nil {
		if !utils.IsValidDate(*req.Date) {
			return common.NewValidationError("date must be formatted as YYYY-MM-DD")
		}
		trade.Date = *req.Date
	}
	if req.Ticker != nil {
		trade.Ticker = strings.ToUpper(*req.Ticker)
	}
	if req.BuyPrice != nil {
		trade.BuyPrice = req.BuyPrice
	}
	if req.SellPrice != nil {
		trade.SellPrice = req.SellPrice
	}
	if req.Shares != nil {
		trade.Shares = *req.Shares
	}
	if req.Risk != nil {
		trade.Risk = req.Risk
	}
	if req.RiskDollars != nil {
		trade.RiskDollars = req.RiskDollars
	}
	if req.AccountBalance != nil {
		trade.AccountBalance = req.AccountBalance
	}
	if req.Notes != nil {
		trade.Notes = *req.Notes
	}
	if req.Status != nil {
		trade.Status = *req.Status
	}

	if err := validateEntry(trade.Status, trade.BuyPrice, trade.SellPrice, trade.Risk, trade.RiskDollars); err != nil {
		return err
	}

	// Re-derive the missing risk field against the merged balance. Only one
	// side can be absent here; validateEntry already rejected both-missing.
	if hasValue(trade.AccountBalance) {
		deriveRisk(trade, *trade.AccountBalance)
	}

	if err := s.tradeRepo.Save(ctx, trade); err != nil {
		s.logger.Error("Failed to update trade", logger.ErrorField(err), logger.Field("trade_id", tradeID))
		return err
	}
	s.cache.Invalidate(ctx, userID)

	s.logger.Info("Trade updated", logger.Field("trade_id", tradeID), logger.Field("user_id", userID))
	return nil
}

// DeleteTrade removes a trade after an ownership check.
func (s *tradeService) DeleteTrade(ctx context.Context, userID, tradeID string) error {
	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.UserID != userID {
		s.logger.Warn("Trade delete denied",
			logger.Field("trade_id", tradeID),
			logger.Field("caller", userID),
			logger.Field("owner", trade.UserID))
		return common.ErrAccessDenied
	}

	if err := s.tradeRepo.Delete(ctx, tradeID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)

	s.logger.Info("Trade deleted", logger.Field("trade_id", tradeID), logger.Field("user_id", userID))
	return nil
}

// GetTrades lists the user's trades, optionally windowed by the inclusive
// date range. Filtering happens in memory so closed trades are tested on
// their exit date.
func (s *tradeService) GetTrades(ctx context.Context, userID, fromDate, toDate string) ([]entity.Trade, error) {
	trades, err := s.tradeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterTradesByDateRange(trades, fromDate, toDate), nil
}

// resolveAccountBalance picks the balance used for risk derivation: the
// payload value wins, then the profile, then the fixed default. Profile
// lookup failures fall back to the default rather than failing the write.
func (s *tradeService) resolveAccountBalance(ctx context.Context, userID string, provided *float64) float64 {
	if hasValue(provided) {
		return *provided
	}
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		if err != common.ErrNotFound {
			s.logger.Warn("Could not fetch account balance", logger.ErrorField(err), logger.Field("user_id", userID))
		}
		return common.DefaultAccountBalance
	}
	if profile.AccountBalance <= 0 {
		return common.DefaultAccountBalance
	}
	return profile.AccountBalance
}

// deriveRisk fills in whichever of risk / risk_dollars is absent and
// snapshots the balance used, so later profile changes do not rewrite
// historical risk.
func deriveRisk(trade *entity.Trade, balance float64) {
	if balance <= 0 {
		return
	}
	if hasValue(trade.Risk) && !hasValue(trade.RiskDollars) {
		dollars := *trade.Risk / 100 * balance
		trade.RiskDollars = &dollars
	} else if hasValue(trade.RiskDollars) && !hasValue(trade.Risk) {
		pct := *trade.RiskDollars / balance * 100
		trade.Risk = &pct
	}
	trade.AccountBalance = &balance
}

// validateEntry enforces the status-dependent field rules shared by entry
// and update.
func validateEntry(status string, buyPrice, sellPrice, risk, riskDollars *float64) error {
	switch status {
	case entity.TradeStatusOpen:
		if !hasValue(buyPrice) {
			return common.NewValidationError("buy price is required for open trades")
		}
	case entity.TradeStatusClosed:
		if !hasValue(sellPrice) {
			return common.NewValidationError("sell price is required for closed trades")
		}
	default:
		return common.NewValidationError("status must be %q or %q", entity.TradeStatusOpen, entity.TradeStatusClosed)
	}
	if !hasValue(risk) && !hasValue(riskDollars) {
		return common.NewValidationError("either risk percentage or risk in dollars must be provided")
	}
	return nil
}

// joinNotes appends an exit annotation, trimming the separator when the
// existing notes are empty.
func joinNotes(existing, suffix string) string {
	return strings.Trim(existing+" | "+suffix, " |")
}
