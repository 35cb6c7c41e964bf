package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/middlewares"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/mmdatafocus/debt_gateway/services"
	"github.com/mmdatafocus/debt_gateway/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := schemas.RegisterGinValidations(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubDebtStatus struct{}

func (stubDebtStatus) CheckingDebtStatus(_ context.Context, req *schemas.DebtStatusRequest) *schemas.DebtStatusResponse {
	if req.IdConsulta == "99999999" {
		return schemas.ClientNotFoundResponse()
	}
	return schemas.NoPendingDebtsResponse()
}

type stubReconciler struct {
	status models.PaymentStatus
}

func (s *stubReconciler) UpdatePayments(_ context.Context, payload map[string]any, status models.PaymentStatus) (*schemas.PaymentResponse, error) {
	s.status = status
	if payload["numDocumento"] == "ZZZZZZZZZZZZZZZZ" {
		return schemas.DebtNotFoundResponse(), nil
	}
	return &schemas.PaymentResponse{CodigoRespuesta: "00", NombreCliente: "Juan Perez", NumOperacionERP: "7", DescripcionResp: "OK"}, nil
}

func newTestApp(ready bool) (*application, *stubReconciler) {
	app := &application{logger: config.GetLogger()}
	rec := &stubReconciler{}
	if ready {
		app.deps.Store(&dependencies{
			debts:    services.NewDebtService(stubDebtStatus{}, nil),
			payments: services.NewPaymentService(rec, nil),
		})
	}
	return app, rec
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

const debtStatusBody = `{"tipoConsulta":"1","idConsulta":"10000001","codigoBanco":"0011","codigoProducto":"OJw","canalPago":"01","codigoEmpresa":"001"}`

const updateBody = `{"fechaTxn":"15032024","horaTxn":"101500","canalPago":"01","codigoBanco":"0011",
"numOperacionBanco":"000000000123","formaPago":"EF","tipoConsulta":"1","idConsulta":"10000001",
"codigoProducto":"OJw","numDocumento":"AbCdEf0123456789","importePagado":150.50,"monedaDoc":"S","codigoEmpresa":"001"}`

const revertBody = `{"fechaTxn":"16032024","horaTxn":"101500","codigoBanco":"0011","tipoConsulta":"1",
"idConsulta":"10000001","numOperacionBanco":"000000000123","numDocumento":"AbCdEf0123456789","codigoEmpresa":"001"}`

func TestHealthzBeforeReady(t *testing.T) {
	app, _ := newTestApp(false)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/v1/debt-status", debtStatusBody)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before dependencies are ready, got %d", w.Code)
	}
}

func TestDebtStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodPost, "/v1/debt-status", debtStatusBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp schemas.DebtStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CodigoRespuesta != "22" || resp.DeudasPendientes == nil {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
	if w.Header().Get(middlewares.CorrelationIdHeader) == "" {
		t.Fatalf("expected a correlation id header")
	}
}

func TestDebtStatusEndpointValidation(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	body := `{"tipoConsulta":"1","idConsulta":"123456789012345","codigoBanco":"0011","codigoProducto":"OJw","canalPago":"01"}`
	w := doJSON(t, r, http.MethodPost, "/v1/debt-status", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var got validationErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	byField := map[string]utils.FieldViolation{}
	for _, v := range got.Detail {
		if len(v.Loc) != 2 || v.Loc[0] != "body" {
			t.Fatalf("unexpected loc %v", v.Loc)
		}
		byField[v.Loc[1]] = v
	}
	if byField["idConsulta"].Type != "max" || byField["codigoEmpresa"].Type != "required" {
		t.Fatalf("unexpected violations %+v", got.Detail)
	}
}

func TestMalformedJSON(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodPost, "/v1/update-debt-payment", `{"fechaTxn":`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var got validationErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Detail) != 1 || len(got.Detail[0].Loc) != 1 || got.Detail[0].Loc[0] != "body" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestUpdateDebtPaymentEndpoint(t *testing.T) {
	app, rec := newTestApp(true)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodPost, "/v1/update-debt-payment", updateBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp schemas.PaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CodigoRespuesta != "00" || resp.NumOperacionERP != "7" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if rec.status != models.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", rec.status)
	}
}

func TestUpdateDebtPaymentEndpointAmountDigits(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	body := bytes.Replace([]byte(updateBody), []byte(`150.50`), []byte(`1234567890.123`), 1)
	w := doJSON(t, r, http.MethodPost, "/v1/update-debt-payment", string(body))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var got validationErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Detail) != 1 || got.Detail[0].Loc[1] != "importePagado" || got.Detail[0].Type != "maxdigits" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRevertDebtPaymentEndpoint(t *testing.T) {
	app, rec := newTestApp(true)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodPost, "/v1/revert-debt-payment", revertBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if rec.status != models.PaymentStatusPending {
		t.Fatalf("status = %q, want pending", rec.status)
	}

	notFound := bytes.Replace([]byte(revertBody), []byte("AbCdEf0123456789"), []byte("ZZZZZZZZZZZZZZZZ"), 1)
	w = doJSON(t, r, http.MethodPost, "/v1/revert-debt-payment", string(notFound))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp schemas.RevertPaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CodigoRespuesta != "99" || resp.DescripcionResp != "DEUDA NO ENCONTRADA" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRevertDebtPaymentEndpointFormats(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	body := bytes.Replace([]byte(revertBody), []byte(`"16032024"`), []byte(`"31022024"`), 1)
	w := doJSON(t, r, http.MethodPost, "/v1/revert-debt-payment", string(body))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var got validationErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Detail) != 1 || got.Detail[0].Loc[1] != "fechaTxn" || got.Detail[0].Type != "ddmmyyyy" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	w := doJSON(t, r, http.MethodPost, "/v1/nope", "{}")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCorrelationIdIsEchoed(t *testing.T) {
	app, _ := newTestApp(true)
	r := newRouter(app, config.Settings{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middlewares.CorrelationIdHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(middlewares.CorrelationIdHeader); got != "abc-123" {
		t.Fatalf("correlation id = %q, want abc-123", got)
	}
}
