package services

import (
	"context"
	"errors"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/mmdatafocus/debt_gateway/workflow"
	"github.com/sirupsen/logrus"
)

// RequestError marks a request the contract rejects; the HTTP layer answers it with 422.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// Violations renders the error as 422 body entries.
func (e *RequestError) Violations() []utils.FieldViolation {
	if errors.Is(e.Err, workflow.ErrMalformedDate) {
		return []utils.FieldViolation{{
			Loc:  []string{"body", "fechaTxn"},
			Msg:  "fechaTxn must be in the format DDMMAAAA",
			Type: "ddmmyyyy",
		}}
	}
	return utils.ProcessValidationErrors(e.Err)
}

func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

type debtStatusChecker interface {
	CheckingDebtStatus(ctx context.Context, req *schemas.DebtStatusRequest) *schemas.DebtStatusResponse
}

type DebtService struct {
	query  debtStatusChecker
	logger *logrus.Logger
}

func NewDebtService(query debtStatusChecker, logger *logrus.Logger) *DebtService {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &DebtService{query: query, logger: logger}
}

// DebtStatus validates req and answers it. Only request errors are returned;
// anything else becomes the "99" envelope.
func (s *DebtService) DebtStatus(ctx context.Context, req *schemas.DebtStatusRequest) (*schemas.DebtStatusResponse, error) {
	if err := schemas.Validate(req); err != nil {
		return nil, &RequestError{Err: err}
	}

	resp := s.query.CheckingDebtStatus(ctx, req)
	if resp == nil {
		config.LogError(s.logger, "debtService.go", "DebtStatus", "CheckingDebtStatus", req, errors.New("nil response"))
		return schemas.DebtStatusErrorResponse(), nil
	}
	if err := schemas.Validate(resp); err != nil {
		config.LogError(s.logger, "debtService.go", "DebtStatus", "Validate response", resp, err)
		return schemas.DebtStatusErrorResponse(), nil
	}
	return resp, nil
}
