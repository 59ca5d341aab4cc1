// internal/handlers/navigation_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehalata/aura-backend/internal/navigation"
	"github.com/snehalata/aura-backend/internal/utils"
)

func newNavigationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNavigationHandler(navigation.AppTable(), navigation.NewHub())

	r := gin.New()
	r.GET("/v1/navigation/resolve", h.Resolve)
	r.GET("/v1/navigation/location", h.GetLocation)
	r.POST("/v1/navigation/location", h.SetLocation)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestResolveDeepLink(t *testing.T) {
	r := newNavigationRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/navigation/resolve?path=/store/shafis-fashion", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	assert.Equal(t, true, data["matched"])
	assert.Equal(t, navigation.ViewStoreProfile, data["view"])
	assert.Equal(t, map[string]interface{}{"slug": "shafis-fashion"}, data["params"])
}

func TestResolveMissIsBlankViewNotError(t *testing.T) {
	r := newNavigationRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/navigation/resolve?path=/no-such-screen", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	assert.Equal(t, false, data["matched"])
	assert.Nil(t, data["view"])
}

func TestResolveRequiresPath(t *testing.T) {
	r := newNavigationRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/navigation/resolve", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocationRoundTrip(t *testing.T) {
	r := newNavigationRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/navigation/location",
		strings.NewReader(`{"location":"/orders/ORD-1001"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/orders/ORD-1001", decodeBody(t, rec)["location"])

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/navigation/location", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/orders/ORD-1001", decodeBody(t, rec)["location"])
}

func TestEmptyLocationNormalizesToRoot(t *testing.T) {
	r := newNavigationRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/navigation/location",
		strings.NewReader(`{"location":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", decodeBody(t, rec)["location"])
}
