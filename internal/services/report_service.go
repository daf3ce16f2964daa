package services

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// Window bounds a report: a calendar year, optionally narrowed to one
// month (1-12). Month 0 means the whole year. Boundaries are UTC.
type Window struct {
	Year  int
	Month int
}

func (w Window) Validate() error {
	if w.Year < 1 || w.Year > 9999 {
		return invalid("Year is out of range")
	}
	if w.Month < 0 || w.Month > 12 {
		return invalid("Month must be between 1 and 12")
	}
	return nil
}

// Bounds returns the half-open interval [from, to) covered by the window.
func (w Window) Bounds() (time.Time, time.Time) {
	if w.Month == 0 {
		from := time.Date(w.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from := time.Date(w.Year, time.Month(w.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

type MonthTotals struct {
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Key is the two-digit month label, "01" to "12".
func (m MonthTotals) Key() string {
	return fmt.Sprintf("%02d", m.Month)
}

// YearSummary always holds all twelve months, zeroed where there was no activity.
type YearSummary struct {
	Year   int             `json:"year"`
	Months [12]MonthTotals `json:"months"`
}

// Month returns the totals for month m (1-12).
func (y *YearSummary) Month(m int) MonthTotals {
	if m < 1 || m > 12 {
		return MonthTotals{Month: m, Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	}
	return y.Months[m-1]
}

type CategoryEntry struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type CategoryBreakdown struct {
	Total        decimal.Decimal `json:"total"`
	Percentage   decimal.Decimal `json:"percentage"`
	Transactions []CategoryEntry `json:"transactions"`
}

// Breakdown is the per-category detail of one aggregation window.
type Breakdown struct {
	Year              int                           `json:"year"`
	Month             int                           `json:"month,omitempty"`
	IncomeCategories  map[string]*CategoryBreakdown `json:"income_categories"`
	ExpenseCategories map[string]*CategoryBreakdown `json:"expense_categories"`
	TotalIncome       decimal.Decimal               `json:"total_income"`
	TotalExpense      decimal.Decimal               `json:"total_expense"`
	Balance           decimal.Decimal               `json:"balance"`
	TransactionCount  int                           `json:"transaction_count"`
}

type RankedCategory struct {
	Name string
	*CategoryBreakdown
}

// Ranked orders categories by total, largest first, then by name.
func Ranked(categories map[string]*CategoryBreakdown) []RankedCategory {
	ranked := make([]RankedCategory, 0, len(categories))
	for name, c := range categories {
		ranked = append(ranked, RankedCategory{Name: name, CategoryBreakdown: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].Total.Cmp(ranked[j].Total); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// MonthlyReport bundles what the report page shows.
type MonthlyReport struct {
	Summary *YearSummary `json:"summary"`
	Detail  *Breakdown   `json:"detail"`
}

// ReportService is the aggregation engine. It works on the rows returned by
// the record store; there is no SQL-side grouping so the same code runs on
// SQLite and PostgreSQL.
type ReportService struct {
	transactionRepo *repository.TransactionRepository
	logger          *slog.Logger
}

func NewReportService(transactionRepo *repository.TransactionRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Summarize returns income, expense and balance for each month of year.
func (s *ReportService) Summarize(ownerID uint, year int) (*YearSummary, error) {
	window := Window{Year: year}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	from, to := window.Bounds()
	transactions, err := s.transactionRepo.FindInWindow(ownerID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &YearSummary{Year: year}
	for i := range summary.Months {
		summary.Months[i] = MonthTotals{
			Month:   i + 1,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Balance: decimal.Zero,
		}
	}

	for _, t := range transactions {
		month := &summary.Months[t.OccurredAt.UTC().Month()-1]
		switch t.Kind {
		case models.KindIncome:
			month.Income = month.Income.Add(t.Amount)
		case models.KindExpense:
			month.Expense = month.Expense.Add(t.Amount)
		default:
			s.logger.Warn("ignoring transaction with unknown kind", "transaction_id", t.ID, "kind", t.Kind)
		}
	}

	for i := range summary.Months {
		summary.Months[i].Balance = summary.Months[i].Income.Sub(summary.Months[i].Expense)
	}

	return summary, nil
}

// Detail breaks the window down by kind and category. month 0 covers the
// whole year.
func (s *ReportService) Detail(ownerID uint, year, month int) (*Breakdown, error) {
	window := Window{Year: year, Month: month}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	from, to := window.Bounds()
	transactions, err := s.transactionRepo.FindInWindow(ownerID, from, to)
	if err != nil {
		return nil, err
	}

	breakdown := &Breakdown{
		Year:              year,
		Month:             month,
		IncomeCategories:  make(map[string]*CategoryBreakdown),
		ExpenseCategories: make(map[string]*CategoryBreakdown),
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
	}

	for _, t := range transactions {
		var categories map[string]*CategoryBreakdown
		switch t.Kind {
		case models.KindIncome:
			categories = breakdown.IncomeCategories
		case models.KindExpense:
			categories = breakdown.ExpenseCategories
		default:
			s.logger.Warn("ignoring transaction with unknown kind", "transaction_id", t.ID, "kind", t.Kind)
			continue
		}

		category, ok := categories[t.Category]
		if !ok {
			category = &CategoryBreakdown{Total: decimal.Zero, Percentage: decimal.Zero}
			categories[t.Category] = category
		}
		category.Total = category.Total.Add(t.Amount)
		category.Transactions = append(category.Transactions, CategoryEntry{
			Amount:      t.Amount,
			Description: t.Description,
			Date:        t.OccurredAt,
		})
		breakdown.TransactionCount++
	}

	breakdown.TotalIncome = sumAndRate(breakdown.IncomeCategories)
	breakdown.TotalExpense = sumAndRate(breakdown.ExpenseCategories)
	breakdown.Balance = breakdown.TotalIncome.Sub(breakdown.TotalExpense)

	return breakdown, nil
}

// sumAndRate totals the categories of one kind and sets each category's
// share of that total, rounded to one decimal place. A non-positive total
// leaves every share at zero.
func sumAndRate(categories map[string]*CategoryBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Total)
	}
	for _, c := range categories {
		if total.Sign() <= 0 {
			c.Percentage = decimal.Zero
			continue
		}
		c.Percentage = c.Total.Mul(hundred).Div(total).Round(1)
	}
	return total
}

// MonthlyReport computes the year summary and the window breakdown side by side.
func (s *ReportService) MonthlyReport(ownerID uint, year, month int) (*MonthlyReport, error) {
	report := &MonthlyReport{}

	var g errgroup.Group
	g.Go(func() error {
		summary, err := s.Summarize(ownerID, year)
		report.Summary = summary
		return err
	})
	g.Go(func() error {
		detail, err := s.Detail(ownerID, year, month)
		report.Detail = detail
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// SelectableYears lists the years offered by the report page, from
// current+1 down to current-5.
func SelectableYears(current int) []int {
	years := make([]int, 0, 7)
	for y := current + 1; y >= current-5; y-- {
		years = append(years, y)
	}
	return years
}
