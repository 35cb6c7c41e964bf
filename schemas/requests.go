package schemas

import (
	"github.com/shopspring/decimal"
)

type DebtStatusRequest struct {
	TipoConsulta   string `json:"tipoConsulta" binding:"required,len=1"`
	IdConsulta     string `json:"idConsulta" binding:"required,max=14"`
	CodigoBanco    string `json:"codigoBanco" binding:"required,len=4"`
	CodigoProducto string `json:"codigoProducto" binding:"required,len=3"`
	CanalPago      string `json:"canalPago" binding:"required,len=2"`
	CodigoEmpresa  string `json:"codigoEmpresa" binding:"required,len=3"`
}

// PaymentUpdateRequest settles a debt.
type PaymentUpdateRequest struct {
	FechaTxn          string           `json:"fechaTxn" binding:"required,len=8"`
	HoraTxn           string           `json:"horaTxn" binding:"required,len=6"`
	CanalPago         string           `json:"canalPago" binding:"required,len=2"`
	CodigoBanco       string           `json:"codigoBanco" binding:"required,len=4"`
	NumOperacionBanco string           `json:"numOperacionBanco" binding:"required,len=12"`
	FormaPago         string           `json:"formaPago" binding:"required,len=2"`
	TipoConsulta      string           `json:"tipoConsulta" binding:"required,len=1"`
	IdConsulta        string           `json:"idConsulta" binding:"required,max=14"`
	CodigoProducto    string           `json:"codigoProducto" binding:"required,len=3"`
	NumDocumento      string           `json:"numDocumento" binding:"required,max=16"`
	ImportePagado     *decimal.Decimal `json:"importePagado" binding:"required,maxdigits=12"`
	MonedaDoc         string           `json:"monedaDoc" binding:"required,len=1"`
	CodigoEmpresa     string           `json:"codigoEmpresa" binding:"required,len=3"`
}

// Payload is the request as a field map keyed by the external names.
func (r *PaymentUpdateRequest) Payload() map[string]any {
	payload := map[string]any{
		"fechaTxn":          r.FechaTxn,
		"horaTxn":           r.HoraTxn,
		"canalPago":         r.CanalPago,
		"codigoBanco":       r.CodigoBanco,
		"numOperacionBanco": r.NumOperacionBanco,
		"formaPago":         r.FormaPago,
		"tipoConsulta":      r.TipoConsulta,
		"idConsulta":        r.IdConsulta,
		"codigoProducto":    r.CodigoProducto,
		"numDocumento":      r.NumDocumento,
		"monedaDoc":         r.MonedaDoc,
		"codigoEmpresa":     r.CodigoEmpresa,
	}
	if r.ImportePagado != nil {
		payload["importePagado"] = *r.ImportePagado
	}
	return payload
}

// RevertPaymentRequest moves a debt's payments back to pending. It carries
// fewer fields than PaymentUpdateRequest and stricter formats.
type RevertPaymentRequest struct {
	FechaTxn          string `json:"fechaTxn" binding:"required,len=8,ddmmyyyy"`
	HoraTxn           string `json:"horaTxn" binding:"required,len=6,hhmmss"`
	CodigoBanco       string `json:"codigoBanco" binding:"required,len=4,alphanum"`
	TipoConsulta      string `json:"tipoConsulta" binding:"required,len=1,alphanum"`
	IdConsulta        string `json:"idConsulta" binding:"required,max=14,alphanum"`
	NumOperacionBanco string `json:"numOperacionBanco" binding:"required,max=12,alphanum"`
	NumDocumento      string `json:"numDocumento" binding:"required,max=16,alnum_hyphen"`
	CodigoEmpresa     string `json:"codigoEmpresa" binding:"required,len=3,numeric_str"`
}

func (r *RevertPaymentRequest) Payload() map[string]any {
	return map[string]any{
		"fechaTxn":          r.FechaTxn,
		"horaTxn":           r.HoraTxn,
		"codigoBanco":       r.CodigoBanco,
		"tipoConsulta":      r.TipoConsulta,
		"idConsulta":        r.IdConsulta,
		"numOperacionBanco": r.NumOperacionBanco,
		"numDocumento":      r.NumDocumento,
		"codigoEmpresa":     r.CodigoEmpresa,
	}
}
