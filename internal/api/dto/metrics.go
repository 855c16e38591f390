package dto

// TradeMetrics aggregates performance over the closed-complete trades of a
// (possibly date-filtered) trade set. ProfitFactor uses a gross-loss floor of
// 1 when there are no losing trades, so it stays finite but understated in
// the zero-loss case.
type TradeMetrics struct {
	NetPnL          float64 `json:"net_pnl"`
	TradeExpectancy float64 `json:"trade_expectancy"`
	ProfitFactor    float64 `json:"profit_factor"`
	WinPercentage   float64 `json:"win_percentage"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
}

// SymbolCount is one entry of the most-traded ranking.
type SymbolCount struct {
	Ticker string `json:"ticker"`
	Count  int    `json:"count"`
}

// WeeklySummary is the trailing-7-day read-model rendered into summary
// emails and returned by the summary endpoint.
type WeeklySummary struct {
	TotalTrades        int           `json:"total_trades"`
	ProfitLoss         float64       `json:"profit_loss"`
	WinRate            float64       `json:"win_rate"`
	BestTrade          float64       `json:"best_trade"`
	WorstTrade         float64       `json:"worst_trade"`
	AvgTradeSize       float64       `json:"avg_trade_size"`
	WinningTradesCount int           `json:"winning_trades_count"`
	LosingTradesCount  int           `json:"losing_trades_count"`
	MostTradedSymbols  []SymbolCount `json:"most_traded_symbols"`
	TradingDays        int           `json:"trading_days"`
	RiskRewardRatio    float64       `json:"risk_reward_ratio"`
	WeekStart          string        `json:"week_start"`
	WeekEnd            string        `json:"week_end"`
}
