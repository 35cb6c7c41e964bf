package models

import (
	"errors"
	"strconv"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// UnmarshalText lets PaymentStatus be used directly as a flag or JSON value.
func (s *PaymentStatus) UnmarshalText(text []byte) error {
	switch PaymentStatus(text) {
	case PaymentStatusPending:
		*s = PaymentStatusPending
	case PaymentStatusPaid:
		*s = PaymentStatusPaid
	default:
		return errors.New("invalid payment status " + strconv.Quote(string(text)))
	}
	return nil
}
