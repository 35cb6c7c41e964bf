package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/shopspring/decimal"
)

// ErrMalformedDate is returned when fechaTxn is not a DDMMYYYY date.
var ErrMalformedDate = errors.New("malformed date")

// paymentFieldKeys are the external keys a payment payload may carry.
var paymentFieldKeys = []string{
	"fechaTxn",
	"horaTxn",
	"canalPago",
	"codigoBanco",
	"numOperacionBanco",
	"formaPago",
	"tipoConsulta",
	"idConsulta",
	"codigoProducto",
	"numDocumento",
	"importePagado",
	"monedaDoc",
	"codigoEmpresa",
}

// PaymentUpdate is a payment payload translated to payment columns.
type PaymentUpdate struct {
	OperationBankNumber string
	EmitionDate         *time.Time
	BankCode            string
	Gateway             string
	PaymentType         string
	PaymentAmount       decimal.Decimal
	Status              models.PaymentStatus
}

// FormatPaymentFields fills the keys missing from payload with nil, parses
// fechaTxn and maps the result onto payment columns. The status is always
// the one given, never one found in the payload.
func FormatPaymentFields(payload map[string]any, status models.PaymentStatus) (*PaymentUpdate, error) {
	fields := make(map[string]any, len(paymentFieldKeys)+1)
	for _, key := range paymentFieldKeys {
		fields[key] = nil
	}
	for key, value := range payload {
		fields[key] = value
	}
	fields["status"] = status

	emitionDate, err := parseTransactionDate(fields["fechaTxn"])
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(fields["importePagado"])
	if err != nil {
		return nil, err
	}

	return &PaymentUpdate{
		OperationBankNumber: stringField(fields["numOperacionBanco"]),
		EmitionDate:         emitionDate,
		BankCode:            stringField(fields["codigoBanco"]),
		Gateway:             stringField(fields["formaPago"]),
		PaymentType:         stringField(fields["tipoConsulta"]),
		PaymentAmount:       amount,
		Status:              status,
	}, nil
}

func parseTransactionDate(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := utils.ParseContractDate(v)
		if err != nil {
			return nil, fmt.Errorf("fechaTxn %q: %w", v, ErrMalformedDate)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("fechaTxn of type %T: %w", value, ErrMalformedDate)
	}
}

func parseAmount(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, nil
		}
		return *v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case json.Number:
		return utils.ParseDecimal(v.String())
	case string:
		return utils.ParseDecimal(v)
	default:
		return decimal.Zero, fmt.Errorf("importePagado: unsupported type %T", value)
	}
}

func stringField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
