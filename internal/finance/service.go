// Package finance computes the financial report and the monthly income/expense series.
package finance

import (
	"context"
	"errors"
	"strconv"
	"time"

	"backoffice/internal/caching"
	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TopProductsLimit = 5
	SeriesLength     = 12

	monthKeyLayout   = "2006-01"
	monthLabelLayout = "2006/01"
)

type ReportRepository interface {
	SalesTotals(ctx context.Context, rng models.DateRange) (decimal.Decimal, int64, error)
	ExpenseTotal(ctx context.Context, rng models.DateRange) (decimal.Decimal, error)
	TopProducts(ctx context.Context, rng models.DateRange, limit int) ([]models.TopProduct, error)
	MonthlyIncome(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error)
	MonthlyExpenses(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	ReportGeneration(ctx context.Context) (int64, error)
}

type Service struct {
	repo   ReportRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds the reporting engine. cache may be nil.
func NewService(repo ReportRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// ComputeReport aggregates sales and expenses over an inclusive date range.
func (s *Service) ComputeReport(ctx context.Context, rng models.DateRange) (*models.Report, error) {
	gen, cacheable := s.generation(ctx)
	key := reportKey(gen, "summary", dateKey(rng.Start), dateKey(rng.End))
	var cached models.Report
	if cacheable && s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	report, err := s.computeReport(ctx, rng)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.toCache(ctx, gen, key, report)
	}
	return report, nil
}

func (s *Service) computeReport(ctx context.Context, rng models.DateRange) (*models.Report, error) {
	sales, invoices, err := s.repo.SalesTotals(ctx, rng)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ExpenseTotal(ctx, rng)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, rng, TopProductsLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []models.TopProduct{}
	}

	return &models.Report{
		TotalSales:    sales,
		TotalExpenses: expenses,
		Profit:        sales.Sub(expenses),
		TotalInvoices: invoices,
		TopProducts:   top,
	}, nil
}

// MonthlySeries returns SeriesLength months ending at endMonth, oldest first.
// A zero endMonth means the current month.
func (s *Service) MonthlySeries(ctx context.Context, endMonth time.Time) ([]models.MonthlyPoint, error) {
	if endMonth.IsZero() {
		endMonth = s.now()
	}
	months := Months(endMonth, SeriesLength)
	gen, cacheable := s.generation(ctx)
	key := reportKey(gen, "monthly", months[len(months)-1].Format(monthKeyLayout))

	var cached []models.MonthlyPoint
	if cacheable && s.fromCache(ctx, key, &cached) && len(cached) == SeriesLength {
		return cached, nil
	}

	series, err := s.monthlySeries(ctx, months)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.toCache(ctx, gen, key, series)
	}
	return series, nil
}

func (s *Service) monthlySeries(ctx context.Context, months []time.Time) ([]models.MonthlyPoint, error) {
	from := months[0]
	to := months[len(months)-1].AddDate(0, 1, 0)

	income, err := s.repo.MonthlyIncome(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.MonthlyExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}

	incomeByMonth := byMonth(income)
	expenseByMonth := byMonth(expenses)

	series := make([]models.MonthlyPoint, 0, len(months))
	for _, m := range months {
		k := m.Format(monthKeyLayout)
		series = append(series, models.MonthlyPoint{
			Label:   m.Format(monthLabelLayout),
			Income:  lookup(incomeByMonth, k),
			Expense: lookup(expenseByMonth, k),
		})
	}
	return series, nil
}

// Warm recomputes the unbounded report and the current series and stores them in the cache.
func (s *Service) Warm(ctx context.Context) error {
	gen, cacheable := s.generation(ctx)
	if !cacheable {
		return nil
	}
	report, err := s.computeReport(ctx, models.DateRange{})
	if err != nil {
		return err
	}
	s.toCache(ctx, gen, reportKey(gen, "summary", "*", "*"), report)

	months := Months(s.now(), SeriesLength)
	series, err := s.monthlySeries(ctx, months)
	if err != nil {
		return err
	}
	s.toCache(ctx, gen, reportKey(gen, "monthly", months[len(months)-1].Format(monthKeyLayout)), series)
	return nil
}

// Months returns n first-of-month dates ending at endMonth's month, oldest first.
func Months(endMonth time.Time, n int) []time.Time {
	first := time.Date(endMonth.Year(), endMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[n-1-i] = first.AddDate(0, -i, 0)
	}
	return months
}

func byMonth(totals []models.MonthlyTotal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		k := t.Month.Format(monthKeyLayout)
		out[k] = out[k].Add(t.Total)
	}
	return out
}

func lookup(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(common.DateLayout)
}

// reportKey scopes a cache entry to one report generation.
func reportKey(gen int64, parts ...string) string {
	return caching.ReportKey(append([]string{strconv.FormatInt(gen, 10)}, parts...)...)
}

// generation reads the current report generation; false means the cache is not used.
func (s *Service) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.ReportGeneration(ctx)
	if err != nil {
		s.logger.Warn("report cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.GetJSON(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

// toCache stores value only if no invalidation happened since gen was read,
// so a report computed before a write is never cached after it.
func (s *Service) toCache(ctx context.Context, gen int64, key string, value interface{}) {
	current, ok := s.generation(ctx)
	if !ok || current != gen {
		s.logger.Debug("report changed while computing, not caching", zap.String("key", key))
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
