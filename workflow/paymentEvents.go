package workflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/utils"
)

const PaymentStatusChangedEvent = "PaymentStatusChanged"

type PaymentStatusChanged struct {
	OperationIdentifier string               `json:"operation_identifier"`
	ClientId            string               `json:"client_id"`
	PaymentId           int                  `json:"payment_id"`
	OperationBankNumber string               `json:"operation_bank_number"`
	Status              models.PaymentStatus `json:"status"`
	CorrelationId       string               `json:"correlation_id,omitempty"`
	OccurredAt          time.Time            `json:"occurred_at"`
}

func newPaymentStatusChanged(ctx context.Context, debt *models.Debt, payment *models.Payment, now time.Time) PaymentStatusChanged {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	return PaymentStatusChanged{
		OperationIdentifier: debt.OperationIdentifier,
		ClientId:            debt.ClientId,
		PaymentId:           payment.ID,
		OperationBankNumber: payment.OperationBankNumber,
		Status:              payment.Status,
		CorrelationId:       cid,
		OccurredAt:          now.UTC(),
	}
}

func (e PaymentStatusChanged) encode() ([]byte, map[string]string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, nil, err
	}
	attrs := map[string]string{
		"event_type":           PaymentStatusChangedEvent,
		"operation_identifier": e.OperationIdentifier,
		"status":               string(e.Status),
	}
	if e.CorrelationId != "" {
		attrs["correlation_id"] = e.CorrelationId
	}
	return data, attrs, nil
}
