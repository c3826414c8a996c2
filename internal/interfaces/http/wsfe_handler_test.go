package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appwsfe "github.com/jhoicas/wsfe-api/internal/application/wsfe"
	"github.com/jhoicas/wsfe-api/internal/infrastructure/codes"
	"github.com/jhoicas/wsfe-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/wsfe-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/wsfe-api/pkg/jwt"
	"github.com/jhoicas/wsfe-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testCuit      = "20123456789"
	testIssuer    = "wsaa-test"
	testExpMin    = 60
)

// testNow 3 de marzo de 2026: dentro de la ventana de la primera quincena.
var testNow = time.Date(2026, time.March, 3, 10, 30, 0, 0, time.UTC)

// buildTestApp arma la aplicación completa sobre el backend en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	stores := appwsfe.Stores{Sequences: store, Receipts: store, CAEA: store}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	gen := codes.NewGenerator()
	clock := appwsfe.Clock(func() time.Time { return testNow })

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthorizeUC: appwsfe.NewAuthorizeUseCase(runner, gen, clock, log),
		CAEAUC:      appwsfe.NewCAEAUseCase(runner, stores, gen, clock, log),
		QueryUC:     appwsfe.NewQueryUseCase(stores, nil),
		Clock:       clock,
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
		JWTExpMin:   testExpMin,
	})
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testCuit, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(t *testing.T, app *fiber.App, method, path, authHeader string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// facturaBody cuerpo de FECAESolicitar consistente: neto 100, IVA 21, total 121.
func facturaBody(docNum int64) map[string]interface{} {
	return map[string]interface{}{
		"pto_vta":    4000,
		"cbte_tipo":  6,
		"cbte_desde": docNum,
		"cbte_hasta": docNum,
		"concepto":   1,
		"doc_tipo":   96,
		"doc_nro":    "12345678",
		"cbte_fch":   "20260303",
		"imp_total":  "121.00",
		"imp_neto":   "100.00",
		"imp_iva":    "21.00",
		"mon_id":     "PES",
		"mon_cotiz":  "1",
		"iva": []map[string]interface{}{
			{"id": 5, "base_imp": "100.00", "importe": "21.00"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinToken_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", "", facturaBody(1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenIlegible_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", "Bearer token.invalido.aqui", facturaBody(1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Un token vencido responde el error 600 del protocolo, no un 401 genérico.
func TestAuth_TokenVencido_Error600(t *testing.T) {
	app := buildTestApp(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testCuit, testIssuer, -1)
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", "Bearer "+tok, facturaBody(1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"600"`, "el cuerpo debe traer el error 600 de validación de token")
	assert.Contains(t, string(raw), "ValidacionDeToken")
}

func TestLogin_EmiteToken(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"cuit": testCuit})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	// El token emitido sirve para una ruta protegida.
	resp2 := doJSON(t, app, http.MethodGet, "/api/wsfev1/comp-ultimo-autorizado?pto_vta=1&cbte_tipo=6",
		"Bearer "+body["token"].(string), nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// FECAESolicitar
// ──────────────────────────────────────────────────────────────────────────────

func TestFECAESolicitar_Aprueba(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", validToken(t), facturaBody(1))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "A", body["resultado"])
	assert.Equal(t, testCuit, body["cuit"], "la CUIT sale del token, no del cuerpo")
	assert.Len(t, body["cod_aut"], 14)
	assert.Equal(t, "CAE", body["emision_tipo"])
	assert.Equal(t, "20260313", body["fch_vto"], "el CAE vence a los 10 días")
}

// Los rechazos del protocolo viajan con HTTP 200 y Resultado "R".
func TestFECAESolicitar_FueraDeSecuencia_200ConResultadoR(t *testing.T) {
	app := buildTestApp(t)
	token := validToken(t)

	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", token, facturaBody(1))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Repetir el número 1.
	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", token, facturaBody(1))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "R", body["resultado"])
	raw, _ := json.Marshal(body["errores"])
	assert.Contains(t, string(raw), `"10016"`)
}

func TestFECAESolicitar_ComprobanteInconsistente_200ConObservaciones(t *testing.T) {
	app := buildTestApp(t)

	bad := facturaBody(1)
	bad["imp_total"] = "500.00"
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", validToken(t), bad)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "R", body["resultado"])
	assert.NotEmpty(t, body["observaciones"])
}

func TestFECAESolicitar_RangoDistinto_400(t *testing.T) {
	app := buildTestApp(t)

	bad := facturaBody(1)
	bad["cbte_hasta"] = 5
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", validToken(t), bad)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
		"cbte_desde distinto de cbte_hasta no es un rechazo de negocio sino un cuerpo inválido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestFECompUltimoAutorizado_ReflejaLaSecuencia(t *testing.T) {
	app := buildTestApp(t)
	token := validToken(t)

	resp := doJSON(t, app, http.MethodGet, "/api/wsfev1/comp-ultimo-autorizado?pto_vta=4000&cbte_tipo=6", token, nil)
	body := decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, float64(0), body["cbte_nro"])

	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", token, facturaBody(1))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/wsfev1/comp-ultimo-autorizado?pto_vta=4000&cbte_tipo=6", token, nil)
	defer resp.Body.Close()
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["cbte_nro"])
}

func TestFECompConsultar_Existente(t *testing.T) {
	app := buildTestApp(t)
	token := validToken(t)

	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/fecae-solicitar", token, facturaBody(1))
	auth := decodeBody(t, resp)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/wsfev1/comp-consultar?pto_vta=4000&cbte_tipo=6&cbte_nro=1", token, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, auth["cod_aut"], body["cod_autorizacion"])
	assert.Equal(t, "CAE", body["emision_tipo"])
}

func TestFECompConsultar_Inexistente_404ConError602(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/wsfev1/comp-consultar?pto_vta=4000&cbte_tipo=6&cbte_nro=9", validToken(t), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"602"`)
}

// ──────────────────────────────────────────────────────────────────────────────
// CAEA
// ──────────────────────────────────────────────────────────────────────────────

func TestCAEA_CicloCompleto(t *testing.T) {
	app := buildTestApp(t)
	token := validToken(t)

	// Solicitar.
	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-solicitar", token,
		map[string]interface{}{"periodo": "202603", "orden": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lease := decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, "A", lease["resultado"])
	assert.Len(t, lease["caea"], 14)
	assert.Equal(t, "20260301", lease["fch_vig_desde"])
	assert.Equal(t, "20260315", lease["fch_vig_hasta"])
	assert.Equal(t, "20260320", lease["fch_tope_inf"])

	caea := lease["caea"].(string)

	// Repetir la solicitud: 15008 con HTTP 200.
	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-solicitar", token,
		map[string]interface{}{"periodo": "202603", "orden": 1})
	body := decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, "R", body["resultado"])
	raw, _ := json.Marshal(body["errores"])
	assert.Contains(t, string(raw), `"15008"`)

	// Consultar devuelve el mismo código.
	resp = doJSON(t, app, http.MethodGet, "/api/wsfev1/caea-consultar?periodo=202603&orden=1", token, nil)
	body = decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, caea, body["caea"])

	// Informar un comprobante bajo el CAEA.
	inform := facturaBody(1)
	inform["caea"] = caea
	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-reg-informativo", token, inform)
	body = decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, "A", body["resultado"])
	assert.Equal(t, caea, body["cod_aut"], "el registro informativo referencia el CAEA")
	assert.Equal(t, "CAEA", body["emision_tipo"])
	assert.Equal(t, "20260315", body["fch_vto"], "el comprobante vence con el CAEA")

	// Sin movimiento sobre el mismo pos: 1202.
	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-sin-movimiento", token,
		map[string]interface{}{"pto_vta": 4000, "caea": caea})
	body = decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, "R", body["resultado"])
	raw, _ = json.Marshal(body["errores"])
	assert.Contains(t, string(raw), `"1202"`)

	// Sin movimiento sobre otro pos: aprueba.
	resp = doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-sin-movimiento", token,
		map[string]interface{}{"pto_vta": 5000, "caea": caea})
	defer resp.Body.Close()
	body = decodeBody(t, resp)
	assert.Equal(t, "A", body["resultado"])
}

func TestCAEASinMovimiento_CAEADesconocido_Error1200(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/wsfev1/caea-sin-movimiento", validToken(t),
		map[string]interface{}{"pto_vta": 1, "caea": "00000000000000"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "R", body["resultado"])
	raw, _ := json.Marshal(body["errores"])
	assert.Contains(t, string(raw), `"1200"`)
}

// ──────────────────────────────────────────────────────────────────────────────
// FEDummy y catálogos
// ──────────────────────────────────────────────────────────────────────────────

func TestFEDummy_Publico_TodoOK(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/wsfev1/dummy", "", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "OK", body["app_server"])
	assert.Equal(t, "OK", body["db_server"])
	assert.Equal(t, "OK", body["auth_server"])
}

func TestParamsTiposIva_DevuelveElCatalogo(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/params/tipos-iva", validToken(t), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	items, ok := body["result_get"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 6, "el catálogo de alícuotas tiene 6 entradas")

	ids := make(map[float64]bool)
	for _, it := range items {
		m := it.(map[string]interface{})
		ids[m["id"].(float64)] = true
	}
	for _, want := range []float64{3, 4, 5, 6, 8, 9} {
		assert.True(t, ids[want], fmt.Sprintf("falta la alícuota id %v", want))
	}
}
