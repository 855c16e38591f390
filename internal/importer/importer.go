// Package importer loads historical trades from the P&L tracker CSV export.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/utils"
)

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Importer parses tracker CSV exports and persists the rows as trades.
type Importer struct {
	tradeRepo repository.TradeRepository
	logger    *logger.Logger
}

// New creates a new CSV importer.
func New(tradeRepo repository.TradeRepository, log *logger.Logger) *Importer {
	return &Importer{tradeRepo: tradeRepo, logger: log}
}

// Import reads the CSV stream and creates one trade per data row for the
// given user. Summary rows (Pnl/Month/Average prefixes) are skipped, as are
// rows already present for the same (user, ticker, date, buy price).
func (im *Importer) Import(ctx context.Context, r io.Reader, userID string) (Result, error) {
	var result Result

	existing, err := im.tradeRepo.FindByUser(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to load existing trades: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[dedupeKey(&existing[i])] = true
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, ",") ||
			strings.HasPrefix(line, "Pnl") ||
			strings.HasPrefix(line, "Month") ||
			strings.HasPrefix(line, "Average") {
			continue
		}

		trade, ok := parseRow(line, userID)
		if !ok {
			continue
		}

		if seen[dedupeKey(trade)] {
			im.logger.Info("Skipped duplicate trade",
				logger.Field("ticker", trade.Ticker),
				logger.Field("date", trade.Date))
			result.Skipped++
			continue
		}

		if err := im.tradeRepo.Create(ctx, trade); err != nil {
			return result, fmt.Errorf("failed to import %s: %w", trade.Ticker, err)
		}
		seen[dedupeKey(trade)] = true
		result.Imported++

		im.logger.Info("Imported trade",
			logger.Field("ticker", trade.Ticker),
			logger.Field("shares", trade.Shares),
			logger.Field("status", trade.Status))
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// parseRow maps one CSV line onto a trade. Column layout follows the
// tracker export: month, ticker, buy, sell, shares, _, risk dollars. Rows
// without a positive buy price and share count are noise and dropped.
func parseRow(line, userID string) (*entity.Trade, bool) {
	values := strings.Split(line, ",")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	if len(values) < 7 {
		return nil, false
	}

	month := values[0]
	ticker := values[1]
	buyPrice := parseNumber(values[2])
	sellPrice := parseNumber(values[3])
	shares := parseNumber(values[4])
	riskDollars := parseNumber(values[6])

	if month == "" || ticker == "" || buyPrice <= 0 || shares <= 0 {
		return nil, false
	}

	trade := &entity.Trade{
		UserID:   userID,
		Date:     parseMonthToDate(month),
		Ticker:   strings.ToUpper(ticker),
		BuyPrice: &buyPrice,
		Shares:   shares,
		Notes:    "Imported from CSV - " + month,
		Status:   entity.TradeStatusOpen,
	}
	if sellPrice > 0 {
		trade.SellPrice = &sellPrice
		trade.Status = entity.TradeStatusClosed
		trade.ExitDate = &trade.Date
	}
	if riskDollars > 0 {
		trade.RiskDollars = &riskDollars
	}
	return trade, true
}

var monthNumbers = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// parseMonthToDate converts a "January 2025" label to the first of that
// month. Unrecognized labels fall back to today so the row still imports.
func parseMonthToDate(month string) string {
	parts := strings.Fields(month)
	if len(parts) == 2 {
		if num, ok := monthNumbers[parts[0]]; ok {
			return fmt.Sprintf("%s-%s-01", parts[1], num)
		}
	}
	return utils.FormatDate(time.Now())
}

// parseNumber reads a float that may carry thousands separators. Blank or
// malformed cells read as zero.
func parseNumber(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func dedupeKey(t *entity.Trade) string {
	buy := 0.0
	if t.BuyPrice != nil {
		buy = *t.BuyPrice
	}
	return fmt.Sprintf("%s|%s|%s|%g", t.UserID, t.Ticker, t.Date, buy)
}
