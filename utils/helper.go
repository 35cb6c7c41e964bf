package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Layouts of the external contract: fechaTxn / FechaEmision / FechaVencimiento
// travel as DDMMYYYY and horaTxn as HHMMSS.
const (
	ContractDateLayout = "02012006"
	ContractTimeLayout = "150405"
)

// FormatContractDate renders t as DDMMYYYY using its own calendar date (no zone conversion).
func FormatContractDate(t time.Time) string {
	return t.Format(ContractDateLayout)
}

// ParseContractDate parses a DDMMYYYY string into a UTC midnight date.
func ParseContractDate(value string) (time.Time, error) {
	return time.Parse(ContractDateLayout, value)
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	// Remove any whitespace and check for empty strings
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	// Convert string to decimal
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// CountAmountDigits counts the characters of the amount's plain representation
// once the decimal point is removed. A leading sign counts as a character.
func CountAmountDigits(value string) int {
	return len(strings.ReplaceAll(value, ".", ""))
}

// safely dereference pointer of type T, nil pointer return zero value or optional default
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

func NilIfEmpty[T comparable](ptr T) *T {
	var defaultZero T
	if ptr == defaultZero {
		return nil
	}
	return &ptr
}
