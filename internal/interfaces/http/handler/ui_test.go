package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/notify"
	"github.com/ecomm/storefront/internal/view"
)

func newUIRouter(t *testing.T) (*gin.Engine, *notify.Center) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	notifier := notify.NewCenter(time.Minute)
	engine := gin.New()
	NewUIHandler(view.NewController(zap.NewNop()), notifier).RegisterRoutes(engine.Group("/api"))
	return engine, notifier
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w.Code, envelope
}

func TestUIHandler_SwitchView(t *testing.T) {
	engine, _ := newUIRouter(t)

	code, env := doRequest(t, engine, http.MethodPost, "/api/ui/view",
		`{"view":"`+view.ViewProductDetails+`"}`)
	require.Equal(t, http.StatusOK, code)

	data := env["data"].(map[string]any)
	assert.Equal(t, view.ViewProductDetails, data["active"])
	assert.Equal(t, false, data["back_hidden"])
	assert.Equal(t, false, data["add_visible"])
}

func TestUIHandler_SwitchToUnknownViewKeepsCurrent(t *testing.T) {
	engine, _ := newUIRouter(t)

	code, env := doRequest(t, engine, http.MethodPost, "/api/ui/view", `{"view":"no-such-view"}`)
	require.Equal(t, http.StatusOK, code)

	data := env["data"].(map[string]any)
	assert.Equal(t, view.ViewProducts, data["active"])
}

func TestUIHandler_Notification(t *testing.T) {
	engine, notifier := newUIRouter(t)
	notifier.Notify("Product created successfully", notify.KindSuccess)

	code, env := doRequest(t, engine, http.MethodGet, "/api/ui/notification", "")
	require.Equal(t, http.StatusOK, code)
	data := env["data"].(map[string]any)
	assert.Equal(t, "Product created successfully", data["message"])
	assert.Equal(t, "success", data["kind"])

	code, _ = doRequest(t, engine, http.MethodDelete, "/api/ui/notification", "")
	require.Equal(t, http.StatusOK, code)

	_, env = doRequest(t, engine, http.MethodGet, "/api/ui/notification", "")
	assert.Nil(t, env["data"])
}

func TestUIHandler_GalleryLifecycle(t *testing.T) {
	engine, _ := newUIRouter(t)

	code, env := doRequest(t, engine, http.MethodPost, "/api/ui/gallery",
		`{"count":3,"interval_ms":60000}`)
	require.Equal(t, http.StatusOK, code)
	data := env["data"].(map[string]any)
	assert.Equal(t, true, data["active"])
	assert.Equal(t, float64(0), data["index"])
	assert.Equal(t, float64(3), data["count"])
	assert.Equal(t, true, data["running"])

	_, env = doRequest(t, engine, http.MethodPost, "/api/ui/gallery/next", "")
	data = env["data"].(map[string]any)
	assert.Equal(t, float64(1), data["index"])

	_, env = doRequest(t, engine, http.MethodPost, "/api/ui/gallery/seek", `{"index":2}`)
	data = env["data"].(map[string]any)
	assert.Equal(t, float64(2), data["index"])

	_, env = doRequest(t, engine, http.MethodPost, "/api/ui/gallery/prev", "")
	data = env["data"].(map[string]any)
	assert.Equal(t, float64(1), data["index"])

	code, env = doRequest(t, engine, http.MethodDelete, "/api/ui/gallery", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, env["data"].(map[string]any)["active"])

	code, _ = doRequest(t, engine, http.MethodPost, "/api/ui/gallery/next", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUIHandler_GalleryRequiresCount(t *testing.T) {
	engine, _ := newUIRouter(t)

	code, _ := doRequest(t, engine, http.MethodPost, "/api/ui/gallery", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUIHandler_NewGalleryReplacesRunningOne(t *testing.T) {
	engine, _ := newUIRouter(t)

	doRequest(t, engine, http.MethodPost, "/api/ui/gallery", `{"count":5,"interval_ms":60000}`)
	doRequest(t, engine, http.MethodPost, "/api/ui/gallery/next", "")

	_, env := doRequest(t, engine, http.MethodPost, "/api/ui/gallery", `{"count":2,"interval_ms":60000}`)
	data := env["data"].(map[string]any)
	assert.Equal(t, float64(0), data["index"])
	assert.Equal(t, float64(2), data["count"])
}
