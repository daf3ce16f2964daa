package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the mutable fields of a transaction as submitted
// by a client. A zero OccurredAt means "now" on create and "unchanged" on
// update.
type TransactionInput struct {
	Kind        models.Kind
	Category    string
	Amount      decimal.Decimal
	Description string
	OccurredAt  time.Time
}

func (in *TransactionInput) normalize() error {
	in.Kind = models.Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	if !in.Kind.Valid() {
		return invalid("Type must be income or expense")
	}
	if in.Category == "" {
		return invalid("Category is required")
	}
	if in.Amount.IsNegative() {
		return invalid("Amount cannot be negative")
	}
	return nil
}

// ParseAmount reads a decimal amount from a form field. Thousands
// separators and surrounding spaces are ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, "_", "")
	if raw == "" {
		return decimal.Zero, invalid("Amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("Amount must be a number")
	}
	return amount, nil
}

// Dashboard is the running total over every transaction of a user.
type Dashboard struct {
	Transactions []models.Transaction `json:"transactions"`
	TotalIncome  decimal.Decimal      `json:"total_income"`
	TotalExpense decimal.Decimal      `json:"total_expense"`
	Balance      decimal.Decimal      `json:"balance"`
}

type LedgerService struct {
	transactionRepo *repository.TransactionRepository
	logger          *slog.Logger
}

func NewLedgerService(transactionRepo *repository.TransactionRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (s *LedgerService) Add(ownerID uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      ownerID,
		Kind:        in.Kind,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		OccurredAt:  in.OccurredAt,
	}
	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, err
	}

	s.logger.Debug("transaction added", "user_id", ownerID, "transaction_id", transaction.ID, "kind", transaction.Kind)
	return transaction, nil
}

func (s *LedgerService) List(ownerID uint) ([]models.Transaction, error) {
	return s.transactionRepo.FindByOwner(ownerID)
}

func (s *LedgerService) Get(id, ownerID uint) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}

// Update replaces the mutable fields of the owner's transaction and returns
// the stored result.
func (s *LedgerService) Update(id, ownerID uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.Get(id, ownerID); err != nil {
		return nil, err
	}

	err := s.transactionRepo.Update(&models.Transaction{
		ID:          id,
		UserID:      ownerID,
		Kind:        in.Kind,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		OccurredAt:  in.OccurredAt,
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id, ownerID)
}

func (s *LedgerService) Delete(id, ownerID uint) error {
	if _, err := s.Get(id, ownerID); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(id, ownerID); err != nil {
		return err
	}

	s.logger.Debug("transaction deleted", "user_id", ownerID, "transaction_id", id)
	return nil
}

func (s *LedgerService) Dashboard(ownerID uint) (*Dashboard, error) {
	transactions, err := s.transactionRepo.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Transactions: transactions,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Kind {
		case models.KindIncome:
			dashboard.TotalIncome = dashboard.TotalIncome.Add(t.Amount)
		case models.KindExpense:
			dashboard.TotalExpense = dashboard.TotalExpense.Add(t.Amount)
		}
	}
	dashboard.Balance = dashboard.TotalIncome.Sub(dashboard.TotalExpense)

	return dashboard, nil
}
