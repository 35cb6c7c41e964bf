package schemas

import (
	"strconv"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/utils"
)

const (
	CodeSuccess        = "00"
	CodeClientNotFound = "16"
	CodeNoPendingDebts = "22"
	CodeUnknownError   = "99"

	DescOK             = "OK"
	DescNoPendingDebts = "CLIENTE SIN DEUDAS PENDIENTES"
	DescUnknownError   = "ERROR DESCONOCIDO"
	DescDebtNotFound   = "DEUDA NO ENCONTRADA"
)

// PendingDebt is one debt as reported to the bank.
type PendingDebt struct {
	CodigoProducto   string  `json:"CodigoProducto" binding:"len=3"`
	NumDocumento     string  `json:"NumDocumento" binding:"min=16"`
	DescDocumento    string  `json:"DescDocumento" binding:"max=20"`
	FechaVencimiento string  `json:"FechaVencimiento" binding:"len=8"`
	FechaEmision     string  `json:"FechaEmision" binding:"len=8"`
	Deuda            float64 `json:"Deuda"`
	Mora             float64 `json:"Mora"`
	GastosAdm        float64 `json:"GastosAdm"`
	PagoMinimo       float64 `json:"PagoMinimo"`
	Periodo          string  `json:"Periodo" binding:"len=2"`
	Anio             string  `json:"Anio" binding:"len=4"`
	Cuota            string  `json:"Cuota" binding:"len=2"`
	MonedaDoc        string  `json:"MonedaDoc" binding:"len=1"`
}

type DebtStatusResponse struct {
	Cliente          string        `json:"Cliente"`
	CodigoRespuesta  string        `json:"CodigoRespuesta" binding:"len=2"`
	DescRespuesta    string        `json:"DescRespuesta" binding:"max=30"`
	DeudasPendientes []PendingDebt `json:"deudasPendientes" binding:"dive"`
}

// PaymentResponse answers update-debt-payment.
type PaymentResponse struct {
	CodigoRespuesta string `json:"codigoRespuesta" binding:"len=2"`
	NombreCliente   string `json:"nombreCliente" binding:"max=30"`
	NumOperacionERP string `json:"numOperacionERP" binding:"max=13"`
	DescripcionResp string `json:"descripcionResp" binding:"max=200"`
}

// RevertPaymentResponse answers revert-debt-payment. Same fields as
// PaymentResponse under a tighter numOperacionERP cap.
type RevertPaymentResponse struct {
	CodigoRespuesta string `json:"codigoRespuesta" binding:"len=2,alphanum"`
	NombreCliente   string `json:"nombreCliente" binding:"max=30,client_name"`
	NumOperacionERP string `json:"numOperacionERP" binding:"max=9,alnum_hyphen"`
	DescripcionResp string `json:"descripcionResp" binding:"max=200"`
}

// ShapePendingDebt renames the debt's fields to the external names. Dates go
// out as DDMMYYYY and Anio is the year the debt was recorded.
func ShapePendingDebt(debt *models.Debt) PendingDebt {
	return PendingDebt{
		CodigoProducto:   debt.ProductCode,
		NumDocumento:     debt.OperationIdentifier,
		DescDocumento:    debt.Description,
		FechaVencimiento: utils.FormatContractDate(debt.ExpirationDate),
		FechaEmision:     utils.FormatContractDate(debt.EmitionDate),
		Deuda:            debt.TotalDebt.InexactFloat64(),
		Mora:             debt.DefaultDebt.InexactFloat64(),
		GastosAdm:        debt.AdministrationExpenses.InexactFloat64(),
		PagoMinimo:       debt.MinimumPayment.InexactFloat64(),
		Periodo:          debt.Period,
		Anio:             strconv.Itoa(debt.CreatedAt.Year()),
		Cuota:            debt.Fee,
		MonedaDoc:        debt.Currency,
	}
}

func NewDebtStatusResponse(client *models.Client, debts []*models.Debt) *DebtStatusResponse {
	shaped := make([]PendingDebt, 0, len(debts))
	for _, debt := range debts {
		shaped = append(shaped, ShapePendingDebt(debt))
	}
	return &DebtStatusResponse{
		Cliente:          client.Name,
		CodigoRespuesta:  CodeSuccess,
		DescRespuesta:    DescOK,
		DeudasPendientes: shaped,
	}
}

func ClientNotFoundResponse() *DebtStatusResponse {
	return &DebtStatusResponse{
		CodigoRespuesta:  CodeClientNotFound,
		DescRespuesta:    DescOK,
		DeudasPendientes: []PendingDebt{},
	}
}

func NoPendingDebtsResponse() *DebtStatusResponse {
	return &DebtStatusResponse{
		CodigoRespuesta:  CodeNoPendingDebts,
		DescRespuesta:    DescNoPendingDebts,
		DeudasPendientes: []PendingDebt{},
	}
}

func DebtStatusErrorResponse() *DebtStatusResponse {
	return &DebtStatusResponse{
		CodigoRespuesta:  CodeUnknownError,
		DescRespuesta:    DescUnknownError,
		DeudasPendientes: []PendingDebt{},
	}
}

func DebtNotFoundResponse() *PaymentResponse {
	return &PaymentResponse{
		CodigoRespuesta: CodeUnknownError,
		DescripcionResp: DescDebtNotFound,
	}
}

func PaymentErrorResponse() *PaymentResponse {
	return &PaymentResponse{
		CodigoRespuesta: CodeUnknownError,
		DescripcionResp: DescUnknownError,
	}
}

// ForRevert restates the response under the revert contract.
func (r *PaymentResponse) ForRevert() *RevertPaymentResponse {
	out := RevertPaymentResponse(*r)
	return &out
}
