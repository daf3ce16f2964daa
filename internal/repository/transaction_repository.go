package repository

import (
	"errors"
	"time"

	"github.com/h4ks-com/cashbook/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository is the record store. Every query is filtered by
// owner so one user can never read or change another user's rows.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts transaction and fills in its ID. A zero OccurredAt
// defaults to the current time. Timestamps are stored in UTC so that
// window queries compare consistently on every driver.
func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	if transaction.OccurredAt.IsZero() {
		transaction.OccurredAt = time.Now()
	}
	transaction.OccurredAt = transaction.OccurredAt.UTC()
	return r.db.Create(transaction).Error
}

func (r *TransactionRepository) FindByOwner(ownerID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.
		Where("user_id = ?", ownerID).
		Order("occurred_at DESC").
		Order("id DESC").
		Find(&transactions).Error
	return transactions, err
}

// FindByID returns nil, nil when no row matches both id and owner.
func (r *TransactionRepository) FindByID(id, ownerID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

// Update overwrites the mutable fields of the row matching
// (transaction.ID, transaction.UserID). OccurredAt is only replaced when
// set. Nothing happens if no row matches.
func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	fields := map[string]any{
		"kind":        transaction.Kind,
		"category":    transaction.Category,
		"amount":      transaction.Amount,
		"description": transaction.Description,
	}
	if !transaction.OccurredAt.IsZero() {
		fields["occurred_at"] = transaction.OccurredAt.UTC()
	}
	return r.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(fields).Error
}

// Delete removes the row matching id and owner. Nothing happens if no row matches.
func (r *TransactionRepository) Delete(id, ownerID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Transaction{}).Error
}

// FindInWindow returns the owner's rows with from <= occurred_at < to,
// newest first.
func (r *TransactionRepository) FindInWindow(ownerID uint, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerID, from.UTC(), to.UTC()).
		Order("occurred_at DESC").
		Order("id DESC").
		Find(&transactions).Error
	return transactions, err
}
