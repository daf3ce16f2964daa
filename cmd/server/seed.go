package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/h4ks-com/cashbook/internal/logging"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/h4ks-com/cashbook/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type sampleTransaction struct {
	kind        models.Kind
	category    string
	amount      int64
	description string
	occurredAt  string
}

var sampleTransactions = []sampleTransaction{
	{models.KindIncome, "Salary", 5000000, "Monthly salary", "2022-01-15 10:00:00"},
	{models.KindExpense, "Food", 500000, "Monthly groceries", "2022-01-20 12:00:00"},
	{models.KindExpense, "Transport", 300000, "Fuel", "2022-02-10 08:00:00"},

	{models.KindIncome, "Salary", 6000000, "Monthly salary", "2023-03-15 10:00:00"},
	{models.KindExpense, "Food", 600000, "Monthly groceries", "2023-03-20 12:00:00"},
	{models.KindIncome, "Bonus", 1000000, "Annual bonus", "2023-12-20 14:00:00"},

	{models.KindIncome, "Salary", 7000000, "Monthly salary", "2024-01-15 10:00:00"},
	{models.KindExpense, "Food", 700000, "Monthly groceries", "2024-01-20 12:00:00"},
	{models.KindExpense, "Entertainment", 500000, "Night out", "2024-02-05 20:00:00"},
	{models.KindIncome, "Freelance", 2000000, "Freelance project", "2024-02-10 16:00:00"},
}

func newSeedCmd() *cobra.Command {
	var username string
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample transactions for a user",
		Long: `Insert a sample set of transactions spread over 2022-2024 for an existing
user. With --demo the accounts user1/password1 and user2/password2 are created
first when missing.`,
		Example: `  cashbook seed --demo --user user1
  cashbook seed -u alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, username, demo)
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "User to receive the sample transactions")
	cmd.Flags().BoolVar(&demo, "demo", false, "Create the demo accounts")
	return cmd
}

func runSeed(cmd *cobra.Command, username string, demo bool) error {
	if username == "" && !demo {
		return errors.New("nothing to do: pass --user and/or --demo")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	transactionRepo := repository.NewTransactionRepository(a.db)
	accounts := services.NewAccountService(repository.NewUserRepository(a.db), logging.Component(a.logger, logging.ComponentAuth))
	ledger := services.NewLedgerService(transactionRepo, logging.Component(a.logger, logging.ComponentLedger))

	if demo {
		if err := accounts.SeedDemoUsers(); err != nil {
			return fmt.Errorf("failed to create demo users: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Demo users ready: user1, user2")
	}

	if username == "" {
		return nil
	}

	user, err := accounts.FindByUsername(username)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", username)
	}

	for _, sample := range sampleTransactions {
		occurredAt, err := time.ParseInLocation(time.DateTime, sample.occurredAt, time.UTC)
		if err != nil {
			return fmt.Errorf("bad sample date %q: %w", sample.occurredAt, err)
		}

		_, err = ledger.Add(user.ID, services.TransactionInput{
			Kind:        sample.kind,
			Category:    sample.category,
			Amount:      decimal.NewFromInt(sample.amount),
			Description: sample.description,
			OccurredAt:  occurredAt,
		})
		if err != nil {
			return fmt.Errorf("failed to add sample transaction: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample transactions for %s\n", len(sampleTransactions), user.Username)
	return nil
}
