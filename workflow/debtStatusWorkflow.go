package workflow

import (
	"context"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type DebtStatusQuery struct {
	Clients ClientFinder
	Debts   DebtFinder
	Logger  *logrus.Logger
	Tracer  trace.Tracer
}

// CheckingDebtStatus reports the client's pending debts for the requested
// product. Failures come back as the "99" envelope, never as an error.
func (q *DebtStatusQuery) CheckingDebtStatus(ctx context.Context, req *schemas.DebtStatusRequest) *schemas.DebtStatusResponse {
	tracer := q.Tracer
	if tracer == nil {
		tracer = otel.Tracer("debt-gateway/workflow")
	}
	ctx, span := tracer.Start(ctx, "DebtStatusQuery.CheckingDebtStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("client.document_identifier", req.IdConsulta),
		attribute.String("debt.product_code", req.CodigoProducto),
	)

	logger := q.Logger
	if logger == nil {
		logger = config.GetLogger()
	}

	client, err := q.Clients.GetClientByDocumentIdentifier(ctx, req.IdConsulta)
	if err != nil {
		config.LogError(logger, "debtStatusWorkflow.go", "CheckingDebtStatus", "GetClientByDocumentIdentifier", req.IdConsulta, err)
		span.RecordError(err)
		return schemas.DebtStatusErrorResponse()
	}
	if client == nil {
		return schemas.ClientNotFoundResponse()
	}

	debts, err := q.Debts.GetDebtsByClientIdentifier(ctx, req.IdConsulta, req.CodigoProducto)
	if err != nil {
		config.LogError(logger, "debtStatusWorkflow.go", "CheckingDebtStatus", "GetDebtsByClientIdentifier", req, err)
		span.RecordError(err)
		return schemas.DebtStatusErrorResponse()
	}
	if len(debts) == 0 {
		return schemas.NoPendingDebtsResponse()
	}

	return schemas.NewDebtStatusResponse(client, debts)
}
