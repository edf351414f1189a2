package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/facturx"
	"github.com/rezonia/facturx/internal/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	s, err := server.NewServer(&server.Config{Address: ":0"})
	require.NoError(t, err)
	return s
}

func invoiceBody(profile string) string {
	payload := map[string]interface{}{
		"profile": profile,
		"invoice": map[string]interface{}{
			"invoice_id": "INV-42",
			"seller": map[string]interface{}{
				"name":    "Seller GmbH",
				"country": "DE",
				"vat_id":  "DE123456789",
			},
			"buyer": map[string]interface{}{
				"name":    "Buyer SA",
				"country": "FR",
			},
			"lines": []map[string]interface{}{
				{
					"product_name": "Widget",
					"unit_price":   "50.00",
					"quantity":     "2",
					"tax_rate":     "19",
				},
			},
		},
	}
	body, _ := json.Marshal(payload)
	return string(body)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestXMLEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/xml", strings.NewReader(invoiceBody("EN16931")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "rsm:CrossIndustryInvoice")
	assert.Contains(t, w.Body.String(), "urn:factur-x.eu:1p0:en16931")
	assert.Contains(t, w.Body.String(), "INV-42")
}

func TestXMLEndpointUnknownProfile(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/xml", strings.NewReader(invoiceBody("FULL")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported")
}

func TestXMLEndpointMissingProfile(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/xml", strings.NewReader(`{"invoice":{"invoice_id":"X"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestXMLEndpointMappingError(t *testing.T) {
	s := newTestServer(t)

	body := `{"profile":"MINIMUM","invoice":{"invoice_id":"","seller":{"name":"S"},"buyer":{"name":"B"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/xml", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invoice id")
}

func TestGenerateEndpointMissingFields(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "profile and invoice form fields are required")
}

func TestGenerateEndpointMissingUpload(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("profile", "MINIMUM"))
	require.NoError(t, mw.WriteField("invoice", `{"invoice_id":"INV-1","seller":{"name":"S"},"buyer":{"name":"B"}}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "pdf upload is required")
}

func TestInspectEndpointEmptyBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspect", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectEndpointInvalidContainer(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspect", strings.NewReader("not a PDF"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report facturx.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.SchemaErrors)
	assert.Contains(t, report.SchemaErrors[0], "extraction failed")
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := "%PDF-1.7 stub /ByteRange [0 1 2 3]"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/info", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp server.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(body), resp.Size)
	assert.True(t, resp.SignaturePresent)
}
