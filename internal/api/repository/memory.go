package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradetracker/internal/entity"
	"tradetracker/pkg/common"

	"github.com/google/uuid"
)

// In-memory repository variants. They back tests and the no-database dev
// mode, and keep the lifecycle/metrics logic storage-agnostic. Returned
// records are copies so callers cannot mutate the store in place.

// MemoryTradeRepository is the in-memory TradeRepository.
type MemoryTradeRepository struct {
	mu     sync.Mutex
	trades []entity.Trade
}

// NewMemoryTradeRepository creates an empty in-memory trade repository.
func NewMemoryTradeRepository() *MemoryTradeRepository {
	return &MemoryTradeRepository{}
}

func (r *MemoryTradeRepository) Create(_ context.Context, trade *entity.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	now := time.Now()
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = now
	}
	trade.UpdatedAt = now
	r.trades = append(r.trades, *trade)
	return nil
}

func (r *MemoryTradeRepository) FindByID(_ context.Context, id string) (*entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.trades {
		if r.trades[i].ID == id {
			t := r.trades[i]
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryTradeRepository) FindByUser(_ context.Context, userID string) ([]entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Trade
	for _, t := range r.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *MemoryTradeRepository) FindOpenByTicker(_ context.Context, userID, ticker string) (*entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.trades {
		t := r.trades[i]
		if t.UserID == userID && t.Ticker == ticker && t.Status == entity.TradeStatusOpen {
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryTradeRepository) FindSince(_ context.Context, userID, from string) ([]entity.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Trade
	for _, t := range r.trades {
		if t.UserID == userID && (t.Date >= from || (t.ExitDate != nil && *t.ExitDate >= from)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryTradeRepository) Save(_ context.Context, trade *entity.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trade.UpdatedAt = time.Now()
	for i := range r.trades {
		if r.trades[i].ID == trade.ID {
			r.trades[i] = *trade
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *MemoryTradeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.trades {
		if r.trades[i].ID == id {
			r.trades = append(r.trades[:i], r.trades[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// MemoryProfileRepository is the in-memory ProfileRepository.
type MemoryProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]entity.UserProfile
}

// NewMemoryProfileRepository creates an empty in-memory profile repository.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]entity.UserProfile)}
}

func (r *MemoryProfileRepository) FindByUser(_ context.Context, userID string) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		return &p, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryProfileRepository) Upsert(_ context.Context, profile *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = *profile
	return nil
}

// MemoryMonthlyReturnRepository is the in-memory MonthlyReturnRepository.
type MemoryMonthlyReturnRepository struct {
	mu      sync.Mutex
	returns []entity.MonthlyReturn
}

// NewMemoryMonthlyReturnRepository creates an empty in-memory monthly-return repository.
func NewMemoryMonthlyReturnRepository() *MemoryMonthlyReturnRepository {
	return &MemoryMonthlyReturnRepository{}
}

func (r *MemoryMonthlyReturnRepository) FindByID(_ context.Context, id string) (*entity.MonthlyReturn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.returns {
		if r.returns[i].ID == id {
			mr := r.returns[i]
			return &mr, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryMonthlyReturnRepository) FindByUser(_ context.Context, userID string) ([]entity.MonthlyReturn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MonthlyReturn
	for _, mr := range r.returns {
		if mr.UserID == userID {
			out = append(out, mr)
		}
	}
	return out, nil
}

func (r *MemoryMonthlyReturnRepository) FindByUserAndMonth(_ context.Context, userID, month string) (*entity.MonthlyReturn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.returns {
		if r.returns[i].UserID == userID && r.returns[i].Month == month {
			mr := r.returns[i]
			return &mr, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryMonthlyReturnRepository) Create(_ context.Context, mr *entity.MonthlyReturn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mr.ID == "" {
		mr.ID = uuid.NewString()
	}
	now := time.Now()
	if mr.CreatedAt.IsZero() {
		mr.CreatedAt = now
	}
	mr.UpdatedAt = now
	r.returns = append(r.returns, *mr)
	return nil
}

func (r *MemoryMonthlyReturnRepository) Save(_ context.Context, mr *entity.MonthlyReturn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr.UpdatedAt = time.Now()
	for i := range r.returns {
		if r.returns[i].ID == mr.ID {
			r.returns[i] = *mr
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *MemoryMonthlyReturnRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.returns {
		if r.returns[i].ID == id {
			r.returns = append(r.returns[:i], r.returns[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// MemoryMonthlyBalanceRepository is the in-memory MonthlyBalanceRepository.
type MemoryMonthlyBalanceRepository struct {
	mu       sync.Mutex
	balances []entity.MonthlyBalance
}

// NewMemoryMonthlyBalanceRepository creates an empty in-memory monthly-balance repository.
func NewMemoryMonthlyBalanceRepository() *MemoryMonthlyBalanceRepository {
	return &MemoryMonthlyBalanceRepository{}
}

func (r *MemoryMonthlyBalanceRepository) FindByID(_ context.Context, id string) (*entity.MonthlyBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.balances {
		if r.balances[i].ID == id {
			mb := r.balances[i]
			return &mb, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryMonthlyBalanceRepository) FindByUser(_ context.Context, userID string) ([]entity.MonthlyBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MonthlyBalance
	for _, mb := range r.balances {
		if mb.UserID == userID {
			out = append(out, mb)
		}
	}
	return out, nil
}

func (r *MemoryMonthlyBalanceRepository) FindByUserAndMonth(_ context.Context, userID, month string) (*entity.MonthlyBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.balances {
		if r.balances[i].UserID == userID && r.balances[i].Month == month {
			mb := r.balances[i]
			return &mb, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryMonthlyBalanceRepository) Create(_ context.Context, mb *entity.MonthlyBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mb.ID == "" {
		mb.ID = uuid.NewString()
	}
	now := time.Now()
	if mb.CreatedAt.IsZero() {
		mb.CreatedAt = now
	}
	mb.UpdatedAt = now
	r.balances = append(r.balances, *mb)
	return nil
}

func (r *MemoryMonthlyBalanceRepository) Save(_ context.Context, mb *entity.MonthlyBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mb.UpdatedAt = time.Now()
	for i := range r.balances {
		if r.balances[i].ID == mb.ID {
			r.balances[i] = *mb
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *MemoryMonthlyBalanceRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.balances {
		if r.balances[i].ID == id {
			r.balances = append(r.balances[:i], r.balances[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// MemoryFeesConfigRepository is the in-memory FeesConfigRepository.
type MemoryFeesConfigRepository struct {
	mu      sync.Mutex
	configs map[string]entity.FeesConfig
}

// NewMemoryFeesConfigRepository creates an empty in-memory fees-config repository.
func NewMemoryFeesConfigRepository() *MemoryFeesConfigRepository {
	return &MemoryFeesConfigRepository{configs: make(map[string]entity.FeesConfig)}
}

func (r *MemoryFeesConfigRepository) FindByUser(_ context.Context, userID string) (*entity.FeesConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.configs[userID]; ok {
		return &cfg, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryFeesConfigRepository) Upsert(_ context.Context, cfg *entity.FeesConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if existing, ok := r.configs[cfg.UserID]; ok {
		cfg.CreatedAt = existing.CreatedAt
	} else if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	r.configs[cfg.UserID] = *cfg
	return nil
}

// MemoryEmailLogRepository is the in-memory EmailLogRepository.
type MemoryEmailLogRepository struct {
	mu   sync.Mutex
	logs []entity.EmailLog
}

// NewMemoryEmailLogRepository creates an empty in-memory email-log repository.
func NewMemoryEmailLogRepository() *MemoryEmailLogRepository {
	return &MemoryEmailLogRepository{}
}

func (r *MemoryEmailLogRepository) Create(_ context.Context, log *entity.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *MemoryEmailLogRepository) HasSent(_ context.Context, userID, kind string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.UserID == userID && l.Kind == kind && l.Success {
			return true, nil
		}
	}
	return false, nil
}

// MemoryUserRepository is the in-memory UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users []entity.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryUserRepository) FindAll(_ context.Context, limit int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, len(r.users))
	copy(out, r.users)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryUserRepository) Upsert(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	for i := range r.users {
		if r.users[i].ID == user.ID {
			user.CreatedAt = r.users[i].CreatedAt
			r.users[i] = *user
			return nil
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users = append(r.users, *user)
	return nil
}
