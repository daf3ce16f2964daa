package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/database"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db              *gorm.DB
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
	accounts        *AccountService
	ledger          *LedgerService
	reports         *ReportService
	tokens          *TokenService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, discardLogger()))
	t.Cleanup(func() { database.Close(db) })

	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	return &testEnv{
		db:              db,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		accounts:        NewAccountService(userRepo, discardLogger()),
		ledger:          NewLedgerService(transactionRepo, discardLogger()),
		reports:         NewReportService(transactionRepo, discardLogger()),
		tokens:          NewTokenService(tokenRepo, userRepo, "test-secret"),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.accounts.Create(username, "password")
	require.NoError(t, err)
	return user
}
