package service

import (
	"sort"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/entity"
)

// hasValue reports whether an optional numeric field is present and usable.
// Zero is treated the same as absent, matching the validation rules: a trade
// with buy_price 0 is not a priced trade.
func hasValue(p *float64) bool {
	return p != nil && *p != 0
}

// FilterTradesByDateRange applies the inclusive [from, to] window using
// lexical comparison of zero-padded date strings. Closed trades with an exit
// date are tested on it, everything else on the entry date, so the result is
// "activity in period": a position opened earlier but closed inside the
// window is included.
func FilterTradesByDateRange(trades []entity.Trade, from, to string) []entity.Trade {
	if from == "" && to == "" {
		return trades
	}
	var out []entity.Trade
	for _, t := range trades {
		d := t.ActivityDate()
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ComputeTradeMetrics aggregates performance over the closed-complete subset
// of trades. Trades with zero P&L count toward the total but are neither
// wins nor losses. When there are no losing trades the gross loss is floored
// at 1 rather than treated as zero, so the profit factor stays finite; the
// value is understated in that case rather than "correct" finance math.
func ComputeTradeMetrics(trades []entity.Trade) dto.TradeMetrics {
	var pnls []float64
	for _, t := range trades {
		if t.Status == entity.TradeStatusClosed && hasValue(t.BuyPrice) && hasValue(t.SellPrice) {
			pnls = append(pnls, (*t.SellPrice-*t.BuyPrice)*t.Shares)
		}
	}

	if len(pnls) == 0 {
		return dto.TradeMetrics{}
	}

	var netPnL, grossProfit, grossLoss float64
	var winCount, lossCount int
	for _, pnl := range pnls {
		netPnL += pnl
		if pnl > 0 {
			grossProfit += pnl
			winCount++
		} else if pnl < 0 {
			grossLoss += -pnl
			lossCount++
		}
	}

	total := len(pnls)
	winPercentage := float64(winCount) / float64(total) * 100

	var avgWin, avgLoss float64
	if winCount > 0 {
		avgWin = grossProfit / float64(winCount)
	}
	if lossCount > 0 {
		avgLoss = grossLoss / float64(lossCount)
	}

	winFraction := float64(winCount) / float64(total)
	lossFraction := float64(lossCount) / float64(total)
	expectancy := winFraction*avgWin - lossFraction*avgLoss

	flooredGrossLoss := grossLoss
	if lossCount == 0 {
		flooredGrossLoss = 1
	}
	profitFactor := grossProfit / flooredGrossLoss

	return dto.TradeMetrics{
		NetPnL:          netPnL,
		TradeExpectancy: expectancy,
		ProfitFactor:    profitFactor,
		WinPercentage:   winPercentage,
		AvgWin:          avgWin,
		AvgLoss:         avgLoss,
		TotalTrades:     total,
		WinningTrades:   winCount,
		LosingTrades:    lossCount,
	}
}

// ComputeWeeklySummary builds the trailing-week read-model over trades whose
// entry date falls in [weekStart, weekEnd]. Unlike the metrics engine, open
// trades stay in the set and contribute a zero P&L, so total counts and the
// average trade size reflect all activity.
func ComputeWeeklySummary(trades []entity.Trade, weekStart, weekEnd string) dto.WeeklySummary {
	summary := dto.WeeklySummary{WeekStart: weekStart, WeekEnd: weekEnd}
	if len(trades) == 0 {
		return summary
	}

	pnls := make([]float64, len(trades))
	for i := range trades {
		pnls[i] = trades[i].PnL()
	}

	total := len(trades)
	var totalPnL, grossProfit, grossLoss float64
	var winCount, lossCount int
	best, worst := pnls[0], pnls[0]
	for _, pnl := range pnls {
		totalPnL += pnl
		if pnl > best {
			best = pnl
		}
		if pnl < worst {
			worst = pnl
		}
		if pnl > 0 {
			grossProfit += pnl
			winCount++
		} else if pnl < 0 {
			grossLoss += -pnl
			lossCount++
		}
	}

	summary.TotalTrades = total
	summary.ProfitLoss = totalPnL
	summary.WinRate = float64(winCount) / float64(total) * 100
	summary.BestTrade = best
	summary.WorstTrade = worst
	summary.AvgTradeSize = totalPnL / float64(total)
	summary.WinningTradesCount = winCount
	summary.LosingTradesCount = lossCount
	summary.MostTradedSymbols = mostTradedSymbols(trades, 3)
	summary.TradingDays = distinctTradingDays(trades)

	// Risk/reward is only meaningful with both winners and losers.
	if winCount > 0 && lossCount > 0 {
		avgWin := grossProfit / float64(winCount)
		avgLoss := grossLoss / float64(lossCount)
		summary.RiskRewardRatio = avgWin / avgLoss
	}

	return summary
}

// mostTradedSymbols ranks tickers by frequency, ties broken by encounter
// order, and returns the top n.
func mostTradedSymbols(trades []entity.Trade, n int) []dto.SymbolCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range trades {
		ticker := t.Ticker
		if ticker == "" {
			ticker = "Unknown"
		}
		if _, seen := counts[ticker]; !seen {
			order = append(order, ticker)
		}
		counts[ticker]++
	}

	ranked := make([]dto.SymbolCount, 0, len(order))
	for _, ticker := range order {
		ranked = append(ranked, dto.SymbolCount{Ticker: ticker, Count: counts[ticker]})
	}
	// Stable sort keeps encounter order for equal counts.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// distinctTradingDays counts unique entry dates.
func distinctTradingDays(trades []entity.Trade) int {
	days := make(map[string]struct{})
	for _, t := range trades {
		if t.Date != "" {
			days[t.Date] = struct{}{}
		}
	}
	return len(days)
}
