package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultMaxIdentifierAttempts = 5

// ErrIdentifierExhausted means every generated operation identifier collided.
var ErrIdentifierExhausted = errors.New("failed to generate a unique operation identifier")

var validate = validator.New()

type Debt struct {
	OperationIdentifier    string          `gorm:"column:operation_identifier;primaryKey;size:16;not null" json:"operation_identifier"`
	ClientId               string          `gorm:"column:client;size:14;not null;index" json:"client_id"`
	Client                 Client          `gorm:"foreignKey:ClientId;references:DocumentIdentifier" json:"client"`
	Description            string          `gorm:"column:description;size:255;not null" json:"description"`
	EmitionDate            time.Time       `gorm:"column:emition_date;not null" json:"emition_date"`
	ExpirationDate         time.Time       `gorm:"column:expiration_date;not null" json:"expiration_date"`
	TotalDebt              decimal.Decimal `gorm:"column:total_debt;type:decimal(12,2);not null" json:"total_debt"`
	DefaultDebt            decimal.Decimal `gorm:"column:default_debt;type:decimal(12,2);not null" json:"default_debt"`
	AdministrationExpenses decimal.Decimal `gorm:"column:administration_expenses;type:decimal(10,2);not null" json:"administration_expenses"`
	MinimumPayment         decimal.Decimal `gorm:"column:minimum_payment;type:decimal(10,2);not null" json:"minimum_payment"`
	Period                 string          `gorm:"column:period;size:2;not null" json:"period"`
	Fee                    string          `gorm:"column:fee;size:2;not null" json:"fee"`
	ProductCode            string          `gorm:"column:product_code;size:3;not null;index" json:"product_code"`
	Currency               string          `gorm:"column:currency;size:10;not null" json:"currency"`
	CreatedAt              time.Time       `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	CreatedBy              *string         `gorm:"column:created_by;size:255" json:"created_by"`
	UpdatedAt              time.Time       `gorm:"column:date_updated;autoUpdateTime" json:"date_updated"`
	UpdatedBy              *string         `gorm:"column:updated_by;size:255" json:"updated_by"`
	Payments               []*Payment      `gorm:"foreignKey:DebtId;references:OperationIdentifier;constraint:OnDelete:SET NULL" json:"payments,omitempty"`
}

func (Debt) TableName() string {
	return "debt"
}

type NewDebt struct {
	ClientId               string          `json:"client_id" validate:"required,max=14"`
	Description            string          `json:"description" validate:"required,max=255"`
	EmitionDate            time.Time       `json:"emition_date" validate:"required"`
	ExpirationDate         time.Time       `json:"expiration_date" validate:"required"`
	TotalDebt              decimal.Decimal `json:"total_debt"`
	DefaultDebt            decimal.Decimal `json:"default_debt"`
	AdministrationExpenses decimal.Decimal `json:"administration_expenses"`
	MinimumPayment         decimal.Decimal `json:"minimum_payment"`
	Period                 string          `json:"period" validate:"required,max=2"`
	Fee                    string          `json:"fee" validate:"required,max=2"`
	ProductCode            string          `json:"product_code" validate:"required,max=3"`
	Currency               string          `json:"currency" validate:"required,max=10"`
	CreatedBy              *string         `json:"created_by" validate:"omitempty,max=255"`
}

// DebtPatch lists the debt attributes that may be changed after creation.
// Nil fields are left untouched.
type DebtPatch struct {
	Description            *string          `json:"description" validate:"omitempty,max=255"`
	EmitionDate            *time.Time       `json:"emition_date"`
	ExpirationDate         *time.Time       `json:"expiration_date"`
	TotalDebt              *decimal.Decimal `json:"total_debt"`
	DefaultDebt            *decimal.Decimal `json:"default_debt"`
	AdministrationExpenses *decimal.Decimal `json:"administration_expenses"`
	MinimumPayment         *decimal.Decimal `json:"minimum_payment"`
	Period                 *string          `json:"period" validate:"omitempty,max=2"`
	Fee                    *string          `json:"fee" validate:"omitempty,max=2"`
	ProductCode            *string          `json:"product_code" validate:"omitempty,max=3"`
	Currency               *string          `json:"currency" validate:"omitempty,max=10"`
	UpdatedBy              *string          `json:"updated_by" validate:"omitempty,max=255"`
}

// columns maps the set fields of the patch to their column names.
func (p *DebtPatch) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.EmitionDate != nil {
		cols["emition_date"] = *p.EmitionDate
	}
	if p.ExpirationDate != nil {
		cols["expiration_date"] = *p.ExpirationDate
	}
	if p.TotalDebt != nil {
		cols["total_debt"] = *p.TotalDebt
	}
	if p.DefaultDebt != nil {
		cols["default_debt"] = *p.DefaultDebt
	}
	if p.AdministrationExpenses != nil {
		cols["administration_expenses"] = *p.AdministrationExpenses
	}
	if p.MinimumPayment != nil {
		cols["minimum_payment"] = *p.MinimumPayment
	}
	if p.Period != nil {
		cols["period"] = *p.Period
	}
	if p.Fee != nil {
		cols["fee"] = *p.Fee
	}
	if p.ProductCode != nil {
		cols["product_code"] = *p.ProductCode
	}
	if p.Currency != nil {
		cols["currency"] = *p.Currency
	}
	if p.UpdatedBy != nil {
		cols["updated_by"] = *p.UpdatedBy
	}
	return cols
}

type DebtStore struct {
	db          *gorm.DB
	maxAttempts int
	generate    func() string
}

func NewDebtStore(db *gorm.DB, maxAttempts int) *DebtStore {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxIdentifierAttempts
	}
	return &DebtStore{
		db:          db,
		maxAttempts: maxAttempts,
		generate: func() string {
			return GenerateOperationIdentifier(DefaultOperationIdentifierLength)
		},
	}
}

// GetDebtByOperationIdentifier loads the debt with its client.
// A missing debt is reported as utils.ErrorRecordNotFound.
func (s *DebtStore) GetDebtByOperationIdentifier(ctx context.Context, operationIdentifier string) (*Debt, error) {
	var debt Debt
	err := s.db.WithContext(ctx).
		Preload("Client").
		Where("operation_identifier = ?", operationIdentifier).
		First(&debt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("debt %q: %w", operationIdentifier, utils.ErrorRecordNotFound)
		}
		return nil, err
	}
	return &debt, nil
}

// GetDebtsByClientIdentifier returns the client's debts for productCode that
// have at least one pending payment.
func (s *DebtStore) GetDebtsByClientIdentifier(ctx context.Context, clientIdentifier string, productCode string) ([]*Debt, error) {
	debts := make([]*Debt, 0)
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Payments").
		Where("debt.client = ? AND debt.product_code = ?", clientIdentifier, productCode).
		Where("EXISTS (SELECT 1 FROM payment WHERE payment.debt = debt.operation_identifier AND payment.status = ?)", PaymentStatusPending).
		Order("debt.emition_date").
		Find(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}

func (s *DebtStore) GetAllDebts(ctx context.Context) ([]*Debt, error) {
	debts := make([]*Debt, 0)
	if err := s.db.WithContext(ctx).Preload("Client").Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (s *DebtStore) operationIdentifierExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Debt{}).Where("operation_identifier = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddDebt creates a debt under a freshly generated operation identifier.
func (s *DebtStore) AddDebt(ctx context.Context, input *NewDebt) (*Debt, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	id, err := generateUniqueOperationIdentifier(ctx, s.maxAttempts, s.generate, s.operationIdentifierExists)
	if err != nil {
		return nil, err
	}
	debt := Debt{
		OperationIdentifier:    id,
		ClientId:               input.ClientId,
		Description:            input.Description,
		EmitionDate:            input.EmitionDate,
		ExpirationDate:         input.ExpirationDate,
		TotalDebt:              input.TotalDebt,
		DefaultDebt:            input.DefaultDebt,
		AdministrationExpenses: input.AdministrationExpenses,
		MinimumPayment:         input.MinimumPayment,
		Period:                 input.Period,
		Fee:                    input.Fee,
		ProductCode:            input.ProductCode,
		Currency:               input.Currency,
		CreatedBy:              input.CreatedBy,
	}
	if err := s.db.WithContext(ctx).Create(&debt).Error; err != nil {
		return nil, err
	}
	return &debt, nil
}

// UpdateDebt applies patch and returns the refreshed debt, or (nil, nil)
// when no debt has that identifier.
func (s *DebtStore) UpdateDebt(ctx context.Context, operationIdentifier string, patch *DebtPatch) (*Debt, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}
	var debt Debt
	err := s.db.WithContext(ctx).Where("operation_identifier = ?", operationIdentifier).First(&debt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	cols := patch.columns()
	if len(cols) == 0 {
		return &debt, nil
	}
	if err := s.db.WithContext(ctx).Model(&debt).Updates(cols).Error; err != nil {
		return nil, err
	}
	var updated Debt
	if err := s.db.WithContext(ctx).Where("operation_identifier = ?", operationIdentifier).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDebt reports false when the debt did not exist.
func (s *DebtStore) DeleteDebt(ctx context.Context, operationIdentifier string) (bool, error) {
	result := s.db.WithContext(ctx).Where("operation_identifier = ?", operationIdentifier).Delete(&Debt{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// generateUniqueOperationIdentifier draws identifiers until exists reports a
// free one, giving up after maxAttempts draws.
func generateUniqueOperationIdentifier(
	ctx context.Context,
	maxAttempts int,
	generate func() string,
	exists func(context.Context, string) (bool, error),
) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := generate()
		taken, err := exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIdentifierExhausted, maxAttempts)
}
