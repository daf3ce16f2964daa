package services

import (
	"testing"
	"time"

	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func (e *testEnv) record(t *testing.T, owner uint, kind models.Kind, category, amount string, at time.Time) {
	t.Helper()
	_, err := e.ledger.Add(owner, TransactionInput{
		Kind:        kind,
		Category:    category,
		Amount:      dec(amount),
		Description: category + " entry",
		OccurredAt:  at,
	})
	require.NoError(t, err)
}

func jan2024(day int) time.Time {
	return time.Date(2024, time.January, day, 10, 0, 0, 0, time.UTC)
}

func TestReportService_SummarizeEmptyYear(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	summary, err := env.reports.Summarize(alice.ID, 2019)
	require.NoError(t, err)
	require.Len(t, summary.Months, 12)

	for i, m := range summary.Months {
		assert.Equal(t, i+1, m.Month)
		assertDecimal(t, "0", m.Income)
		assertDecimal(t, "0", m.Expense)
		assertDecimal(t, "0", m.Balance)
	}
}

func TestReportService_SummarizeExample(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Salary", "5000000", jan2024(15))
	env.record(t, alice.ID, models.KindExpense, "Food", "700000", jan2024(20))

	summary, err := env.reports.Summarize(alice.ID, 2024)
	require.NoError(t, err)

	january := summary.Month(1)
	assert.Equal(t, "01", january.Key())
	assertDecimal(t, "5000000", january.Income)
	assertDecimal(t, "700000", january.Expense)
	assertDecimal(t, "4300000", january.Balance)

	for m := 2; m <= 12; m++ {
		assertDecimal(t, "0", summary.Month(m).Balance)
	}
}

func TestReportService_SummarizeGroupsByMonth(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Salary", "7000000", time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC))
	env.record(t, alice.ID, models.KindExpense, "Food", "700000", time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC))
	env.record(t, alice.ID, models.KindExpense, "Entertainment", "500000", time.Date(2024, time.February, 5, 20, 0, 0, 0, time.UTC))
	env.record(t, alice.ID, models.KindIncome, "Freelance", "2000000", time.Date(2024, time.February, 10, 16, 0, 0, 0, time.UTC))
	env.record(t, alice.ID, models.KindIncome, "Bonus", "1000000", time.Date(2023, time.December, 20, 14, 0, 0, 0, time.UTC))

	summary, err := env.reports.Summarize(alice.ID, 2024)
	require.NoError(t, err)

	assertDecimal(t, "6300000", summary.Month(1).Balance)
	assertDecimal(t, "2000000", summary.Month(2).Income)
	assertDecimal(t, "500000", summary.Month(2).Expense)
	assertDecimal(t, "1500000", summary.Month(2).Balance)
	assertDecimal(t, "0", summary.Month(12).Income, "2023 bonus must not leak into 2024")

	for _, m := range summary.Months {
		assert.True(t, m.Balance.Equal(m.Income.Sub(m.Expense)))
	}
}

func TestReportService_SummarizeIgnoresUnknownKind(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Salary", "100", jan2024(2))
	require.NoError(t, env.transactionRepo.Create(&models.Transaction{
		UserID:     alice.ID,
		Kind:       models.Kind("transfer"),
		Category:   "Legacy",
		Amount:     dec("50"),
		OccurredAt: jan2024(3),
	}))

	summary, err := env.reports.Summarize(alice.ID, 2024)
	require.NoError(t, err)
	assertDecimal(t, "100", summary.Month(1).Income)
	assertDecimal(t, "0", summary.Month(1).Expense)

	detail, err := env.reports.Detail(alice.ID, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.TransactionCount)
	assert.Empty(t, detail.ExpenseCategories)
}

func TestReportService_DetailExample(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Salary", "5000000", jan2024(15))
	env.record(t, alice.ID, models.KindExpense, "Food", "700000", jan2024(20))

	detail, err := env.reports.Detail(alice.ID, 2024, 1)
	require.NoError(t, err)

	assertDecimal(t, "5000000", detail.TotalIncome)
	assertDecimal(t, "700000", detail.TotalExpense)
	assertDecimal(t, "4300000", detail.Balance)
	assert.Equal(t, 2, detail.TransactionCount)

	require.Len(t, detail.IncomeCategories, 1)
	require.Len(t, detail.ExpenseCategories, 1)
	assertDecimal(t, "100", detail.IncomeCategories["Salary"].Percentage)
	assertDecimal(t, "100", detail.ExpenseCategories["Food"].Percentage)

	food := detail.ExpenseCategories["Food"]
	require.Len(t, food.Transactions, 1)
	assertDecimal(t, "700000", food.Transactions[0].Amount)
	assert.Equal(t, "Food entry", food.Transactions[0].Description)
	assert.True(t, jan2024(20).Equal(food.Transactions[0].Date))
}

func TestReportService_DetailPercentagesAndTotals(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindExpense, "Food", "100", jan2024(1))
	env.record(t, alice.ID, models.KindExpense, "Food", "100", jan2024(2))
	env.record(t, alice.ID, models.KindExpense, "Rent", "400", jan2024(3))
	env.record(t, alice.ID, models.KindExpense, "Fun", "1", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	detail, err := env.reports.Detail(alice.ID, 2024, 1)
	require.NoError(t, err)

	require.Len(t, detail.ExpenseCategories, 2)
	assertDecimal(t, "200", detail.ExpenseCategories["Food"].Total)
	assertDecimal(t, "33.3", detail.ExpenseCategories["Food"].Percentage)
	assertDecimal(t, "66.7", detail.ExpenseCategories["Rent"].Percentage)
	assert.Len(t, detail.ExpenseCategories["Food"].Transactions, 2)
	assert.True(t, jan2024(2).Equal(detail.ExpenseCategories["Food"].Transactions[0].Date), "newest first")

	sum := decimal.Zero
	for _, c := range detail.ExpenseCategories {
		sum = sum.Add(c.Total)
	}
	assert.True(t, sum.Equal(detail.TotalExpense))

	assertDecimal(t, "0", detail.TotalIncome)
	assert.Empty(t, detail.IncomeCategories)
	assertDecimal(t, "-600", detail.Balance)
	assert.Equal(t, 3, detail.TransactionCount)

	year, err := env.reports.Detail(alice.ID, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, year.TransactionCount)
	assertDecimal(t, "601", year.TotalExpense)

	ranked := Ranked(year.ExpenseCategories)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Rent", ranked[0].Name)
	assert.Equal(t, "Food", ranked[1].Name)
	assert.Equal(t, "Fun", ranked[2].Name)
}

func TestReportService_DetailZeroTotalHasZeroPercentages(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Gift", "0", jan2024(1))
	env.record(t, alice.ID, models.KindIncome, "Refund", "0", jan2024(2))

	detail, err := env.reports.Detail(alice.ID, 2024, 1)
	require.NoError(t, err)

	assertDecimal(t, "0", detail.TotalIncome)
	require.Len(t, detail.IncomeCategories, 2)
	for _, c := range detail.IncomeCategories {
		assertDecimal(t, "0", c.Percentage)
	}
}

func TestReportService_EmptyDetail(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	detail, err := env.reports.Detail(alice.ID, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.TransactionCount)
	assert.NotNil(t, detail.IncomeCategories)
	assert.NotNil(t, detail.ExpenseCategories)
	assertDecimal(t, "0", detail.Balance)
}

func TestReportService_OwnerIsolation(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	env.record(t, alice.ID, models.KindIncome, "Salary", "5000000", jan2024(15))
	env.record(t, alice.ID, models.KindExpense, "Food", "700000", jan2024(20))

	summary, err := env.reports.Summarize(bob.ID, 2024)
	require.NoError(t, err)
	for _, m := range summary.Months {
		assertDecimal(t, "0", m.Income)
		assertDecimal(t, "0", m.Expense)
	}

	detail, err := env.reports.Detail(bob.ID, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.TransactionCount)
	assert.Empty(t, detail.IncomeCategories)
	assert.Empty(t, detail.ExpenseCategories)
}

func TestReportService_InvalidWindow(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.reports.Detail(alice.ID, 2024, 13)
	assert.True(t, IsValidationError(err))

	_, err = env.reports.Summarize(alice.ID, 0)
	assert.True(t, IsValidationError(err))
}

func TestReportService_MonthlyReport(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	env.record(t, alice.ID, models.KindIncome, "Salary", "5000000", jan2024(15))
	env.record(t, alice.ID, models.KindExpense, "Food", "700000", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))

	report, err := env.reports.MonthlyReport(alice.ID, 2024, 1)
	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	require.NotNil(t, report.Detail)

	assertDecimal(t, "700000", report.Summary.Month(2).Expense)
	assert.Equal(t, 1, report.Detail.TransactionCount)
}

func TestWindow_Bounds(t *testing.T) {
	from, to := Window{Year: 2024}.Bounds()
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = Window{Year: 2024, Month: 12}.Bounds()
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestSelectableYears(t *testing.T) {
	assert.Equal(t, []int{2027, 2026, 2025, 2024, 2023, 2022, 2021}, SelectableYears(2026))
}
