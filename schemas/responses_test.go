package schemas

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/shopspring/decimal"
)

func sampleDebt() *models.Debt {
	return &models.Debt{
		OperationIdentifier:    "AbCdEf0123456789",
		Description:            "Cuota marzo",
		EmitionDate:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate:         time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalDebt:              decimal.RequireFromString("1000.00"),
		DefaultDebt:            decimal.RequireFromString("10.50"),
		AdministrationExpenses: decimal.RequireFromString("5.25"),
		MinimumPayment:         decimal.RequireFromString("100.00"),
		Period:                 "03",
		Fee:                    "01",
		ProductCode:            "OJw",
		Currency:               "S",
		CreatedAt:              time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC),
	}
}

func TestShapePendingDebt(t *testing.T) {
	got := ShapePendingDebt(sampleDebt())
	want := PendingDebt{
		CodigoProducto:   "OJw",
		NumDocumento:     "AbCdEf0123456789",
		DescDocumento:    "Cuota marzo",
		FechaVencimiento: "31032024",
		FechaEmision:     "01032024",
		Deuda:            1000,
		Mora:             10.5,
		GastosAdm:        5.25,
		PagoMinimo:       100,
		Periodo:          "03",
		Anio:             "2024",
		Cuota:            "01",
		MonedaDoc:        "S",
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
	if err := Validate(got); err != nil {
		t.Fatalf("shaped debt should satisfy the contract: %v", err)
	}
}

func TestDebtStatusResponseJSON(t *testing.T) {
	client := &models.Client{Name: "Juan Perez"}
	data, err := json.Marshal(NewDebtStatusResponse(client, []*models.Debt{sampleDebt()}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, fragment := range []string{`"Cliente":"Juan Perez"`, `"CodigoRespuesta":"00"`, `"deudasPendientes":[{`, `"FechaVencimiento":"31032024"`} {
		if !strings.Contains(string(data), fragment) {
			t.Fatalf("%s missing from %s", fragment, data)
		}
	}

	data, err = json.Marshal(NoPendingDebtsResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"deudasPendientes":[]`) {
		t.Fatalf("empty list should serialise as [] in %s", data)
	}
}

func TestDebtStatusResponseRejectsInvalidDebt(t *testing.T) {
	debt := sampleDebt()
	debt.ProductCode = "OJwX"
	resp := NewDebtStatusResponse(&models.Client{Name: "Juan Perez"}, []*models.Debt{debt})
	if err := Validate(resp); err == nil {
		t.Fatalf("expected a 4-character product code to fail the contract")
	}
}

func TestEnvelopes(t *testing.T) {
	for _, tc := range []struct {
		resp *DebtStatusResponse
		code string
		desc string
	}{
		{ClientNotFoundResponse(), "16", "OK"},
		{NoPendingDebtsResponse(), "22", "CLIENTE SIN DEUDAS PENDIENTES"},
		{DebtStatusErrorResponse(), "99", "ERROR DESCONOCIDO"},
	} {
		if tc.resp.CodigoRespuesta != tc.code || tc.resp.DescRespuesta != tc.desc || tc.resp.Cliente != "" {
			t.Fatalf("got %+v, want %s/%s", tc.resp, tc.code, tc.desc)
		}
		if err := Validate(tc.resp); err != nil {
			t.Fatalf("%s envelope should be valid: %v", tc.code, err)
		}
	}

	notFound := DebtNotFoundResponse()
	if notFound.CodigoRespuesta != "99" || notFound.DescripcionResp != "DEUDA NO ENCONTRADA" || notFound.NumOperacionERP != "" {
		t.Fatalf("unexpected not-found envelope %+v", notFound)
	}
	if err := Validate(notFound.ForRevert()); err != nil {
		t.Fatalf("not-found envelope should pass the revert contract: %v", err)
	}
}

func TestNumOperacionERPCaps(t *testing.T) {
	resp := &PaymentResponse{CodigoRespuesta: "00", NombreCliente: "Juan Perez", NumOperacionERP: "1234567890", DescripcionResp: "OK"}
	if err := Validate(resp); err != nil {
		t.Fatalf("10 characters fit the update contract: %v", err)
	}
	fields := failedFields(t, Validate(resp.ForRevert()))
	if fields["numOperacionERP"] != "max" {
		t.Fatalf("10 characters must break the revert cap of 9, got %v", fields)
	}

	resp.NumOperacionERP = "12345678901234"
	fields = failedFields(t, Validate(resp))
	if fields["numOperacionERP"] != "max" {
		t.Fatalf("14 characters must break the update cap of 13, got %v", fields)
	}
}

func TestRevertResponsePatterns(t *testing.T) {
	resp := &RevertPaymentResponse{CodigoRespuesta: "00", NombreCliente: "J. Perez", NumOperacionERP: "42", DescripcionResp: "OK"}
	if err := Validate(resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.NombreCliente = "Perez, Juan"
	fields := failedFields(t, Validate(resp))
	if fields["nombreCliente"] != "client_name" {
		t.Fatalf("unexpected failures %v", fields)
	}
}
