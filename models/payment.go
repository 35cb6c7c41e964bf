package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrPaymentNotFound signals that a bulk status update left no row to return.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrDuplicateOperationBankNumber is returned when the bank operation number is already recorded.
	ErrDuplicateOperationBankNumber = errors.New("operation bank number already registered")
)

const mysqlDuplicateEntry = 1062

type Payment struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	DebtId              *string         `gorm:"column:debt;size:16;index" json:"debt_id"`
	EmitionDate         *time.Time      `gorm:"column:emition_date;not null" json:"emition_date"`
	BankCode            string          `gorm:"column:bank_code;size:255;not null" json:"bank_code"`
	OperationBankNumber string          `gorm:"column:operation_bank_number;size:12;not null;uniqueIndex" json:"operation_bank_number"`
	Gateway             string          `gorm:"column:gateway;size:255;not null" json:"gateway"`
	PaymentType         string          `gorm:"column:payment_type;size:255;not null" json:"payment_type"`
	PaymentAmount       decimal.Decimal `gorm:"column:payment_amount;type:decimal(10,2);not null" json:"payment_amount"`
	Status              PaymentStatus   `gorm:"column:status;size:20;not null" json:"status"`
	CreatedAt           time.Time       `gorm:"column:date_created" json:"date_created"`
	UpdatedAt           time.Time       `gorm:"column:date_updated" json:"date_updated"`
}

func (Payment) TableName() string {
	return "payment"
}

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// CreatePayment inserts payment as given. Zero audit timestamps are filled by gorm.
func (s *PaymentStore) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	if !payment.Status.IsValid() {
		return nil, fmt.Errorf("create payment: invalid status %q", payment.Status)
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperationBankNumber, payment.OperationBankNumber)
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentStore) GetPaymentsByDebt(ctx context.Context, debtId string) ([]*Payment, error) {
	payments := make([]*Payment, 0)
	err := s.db.WithContext(ctx).Where("debt = ?", debtId).Order("id").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdatePaymentStatus moves every payment of the debt to status and returns
// the first of them.
func (s *PaymentStore) UpdatePaymentStatus(ctx context.Context, debtId string, status PaymentStatus) (*Payment, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("update payment status: invalid status %q", status)
	}
	err := s.db.WithContext(ctx).
		Model(&Payment{}).
		Where("debt = ?", debtId).
		Update("status", status).Error
	if err != nil {
		return nil, err
	}

	var payment Payment
	err = s.db.WithContext(ctx).Where("debt = ?", debtId).Order("id").First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("debt %q: %w", debtId, ErrPaymentNotFound)
		}
		return nil, err
	}
	return &payment, nil
}

// DeletePayment reports false when the payment did not exist.
func (s *PaymentStore) DeletePayment(ctx context.Context, id int) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&Payment{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
