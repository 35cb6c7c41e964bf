package services

import (
	"context"
	"errors"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/mmdatafocus/debt_gateway/workflow"
	"github.com/sirupsen/logrus"
)

type paymentReconciler interface {
	UpdatePayments(ctx context.Context, payload map[string]any, status models.PaymentStatus) (*schemas.PaymentResponse, error)
}

type PaymentService struct {
	reconciler paymentReconciler
	logger     *logrus.Logger
}

func NewPaymentService(reconciler paymentReconciler, logger *logrus.Logger) *PaymentService {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &PaymentService{reconciler: reconciler, logger: logger}
}

// UpdateDebtPayment marks the debt's payments as paid.
func (s *PaymentService) UpdateDebtPayment(ctx context.Context, req *schemas.PaymentUpdateRequest) (*schemas.PaymentResponse, error) {
	if err := schemas.Validate(req); err != nil {
		return nil, &RequestError{Err: err}
	}

	resp, err := s.reconcile(ctx, "UpdateDebtPayment", req.Payload(), models.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(resp); err != nil {
		config.LogError(s.logger, "paymentService.go", "UpdateDebtPayment", "Validate response", resp, err)
		return schemas.PaymentErrorResponse(), nil
	}
	return resp, nil
}

// RevertPaymentDebt moves the debt's payments back to pending. A debt with no
// payment yet gets a new pending one.
func (s *PaymentService) RevertPaymentDebt(ctx context.Context, req *schemas.RevertPaymentRequest) (*schemas.RevertPaymentResponse, error) {
	if err := schemas.Validate(req); err != nil {
		return nil, &RequestError{Err: err}
	}

	resp, err := s.reconcile(ctx, "RevertPaymentDebt", req.Payload(), models.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	revert := resp.ForRevert()
	if err := schemas.Validate(revert); err != nil {
		config.LogError(s.logger, "paymentService.go", "RevertPaymentDebt", "Validate response", revert, err)
		return schemas.PaymentErrorResponse().ForRevert(), nil
	}
	return revert, nil
}

// reconcile returns a non-nil error only for a malformed transaction date.
func (s *PaymentService) reconcile(ctx context.Context, funcName string, payload map[string]any, status models.PaymentStatus) (*schemas.PaymentResponse, error) {
	resp, err := s.reconciler.UpdatePayments(ctx, payload, status)
	if err != nil {
		if errors.Is(err, workflow.ErrMalformedDate) {
			return nil, &RequestError{Err: err}
		}
		config.LogError(s.logger, "paymentService.go", funcName, "UpdatePayments", payload["numDocumento"], err)
		return schemas.PaymentErrorResponse(), nil
	}
	if resp == nil {
		config.LogError(s.logger, "paymentService.go", funcName, "UpdatePayments", payload["numDocumento"], errors.New("nil response"))
		return schemas.PaymentErrorResponse(), nil
	}
	return resp, nil
}
