package services

import (
	"testing"
	"time"

	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_AddAndGet(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	added, err := env.ledger.Add(alice.ID, TransactionInput{
		Kind:        " Expense ",
		Category:    " Food ",
		Amount:      dec("12.50"),
		Description: "Lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindExpense, added.Kind)
	assert.Equal(t, "Food", added.Category)

	got, err := env.ledger.Get(added.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)
	assertDecimal(t, "12.5", got.Amount)
	assert.Equal(t, "Lunch", got.Description)
	assert.WithinDuration(t, time.Now(), got.OccurredAt, 5*time.Second)
}

func TestLedgerService_AddValidation(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"unknown kind", TransactionInput{Kind: "transfer", Category: "Food", Amount: dec("1")}},
		{"empty category", TransactionInput{Kind: models.KindIncome, Category: "  ", Amount: dec("1")}},
		{"negative amount", TransactionInput{Kind: models.KindExpense, Category: "Food", Amount: dec("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.Add(alice.ID, tt.input)
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}

	all, err := env.ledger.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLedgerService_GetOtherOwner(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	added, err := env.ledger.Add(alice.ID, TransactionInput{Kind: models.KindIncome, Category: "Salary", Amount: dec("10")})
	require.NoError(t, err)

	_, err = env.ledger.Get(added.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = env.ledger.Update(added.ID, bob.ID, TransactionInput{Kind: models.KindIncome, Category: "Mine", Amount: dec("1")})
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	err = env.ledger.Delete(added.ID, bob.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	got, err := env.ledger.Get(added.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salary", got.Category)
}

func TestLedgerService_Update(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	at := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)
	added, err := env.ledger.Add(alice.ID, TransactionInput{Kind: models.KindExpense, Category: "Food", Amount: dec("10"), OccurredAt: at})
	require.NoError(t, err)

	updated, err := env.ledger.Update(added.ID, alice.ID, TransactionInput{
		Kind:        models.KindIncome,
		Category:    "Refund",
		Amount:      dec("10.25"),
		Description: "Returned",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindIncome, updated.Kind)
	assert.Equal(t, "Refund", updated.Category)
	assertDecimal(t, "10.25", updated.Amount)
	assert.Equal(t, "Returned", updated.Description)
	assert.True(t, at.Equal(updated.OccurredAt))

	_, err = env.ledger.Update(added.ID, alice.ID, TransactionInput{Kind: models.KindIncome, Category: "", Amount: dec("1")})
	assert.True(t, IsValidationError(err))
}

func TestLedgerService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	added, err := env.ledger.Add(alice.ID, TransactionInput{Kind: models.KindExpense, Category: "Food", Amount: dec("10")})
	require.NoError(t, err)

	require.NoError(t, env.ledger.Delete(added.ID, alice.ID))

	_, err = env.ledger.Get(added.ID, alice.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	err = env.ledger.Delete(added.ID, alice.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestLedgerService_Dashboard(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	for _, in := range []TransactionInput{
		{Kind: models.KindIncome, Category: "Salary", Amount: dec("5000000"), OccurredAt: time.Date(2022, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{Kind: models.KindExpense, Category: "Food", Amount: dec("500000"), OccurredAt: time.Date(2022, time.January, 20, 0, 0, 0, 0, time.UTC)},
		{Kind: models.KindExpense, Category: "Transport", Amount: dec("300000"), OccurredAt: time.Date(2022, time.February, 10, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := env.ledger.Add(alice.ID, in)
		require.NoError(t, err)
	}
	_, err := env.ledger.Add(bob.ID, TransactionInput{Kind: models.KindIncome, Category: "Salary", Amount: dec("1")})
	require.NoError(t, err)

	dashboard, err := env.ledger.Dashboard(alice.ID)
	require.NoError(t, err)
	assert.Len(t, dashboard.Transactions, 3)
	assertDecimal(t, "5000000", dashboard.TotalIncome)
	assertDecimal(t, "800000", dashboard.TotalExpense)
	assertDecimal(t, "4200000", dashboard.Balance)
	assert.Equal(t, "Transport", dashboard.Transactions[0].Category)

	empty, err := env.ledger.Dashboard(env.user(t, "carol").ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Transactions)
	assert.True(t, empty.Balance.Equal(decimal.Zero))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		invalid  bool
	}{
		{"", "", true},
		{" , ", "", true},
		{"0", "0", false},
		{"  42 ", "42", false},
		{"5,000,000", "5000000", false},
		{"12.34", "12.34", false},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			amount, err := ParseAmount(tt.raw)
			if tt.invalid {
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.expected, amount)
		})
	}
}
