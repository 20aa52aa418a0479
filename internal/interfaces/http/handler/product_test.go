package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/ecomm/storefront/internal/application/catalog"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/notify"
	"github.com/ecomm/storefront/internal/view"
)

func newProductRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	log := zap.NewNop()
	views := view.NewController(log)
	client := gateway.NewClient(srv.URL, 5*time.Second, log)
	svc := catalogapp.NewService(client, views, notify.NewCenter(time.Minute), catalogapp.ContextConfirmer, log)

	engine := gin.New()
	NewProductHandler(svc, views, log).RegisterRoutes(engine.Group("/api"))
	return engine
}

func TestProductHandler_Featured(t *testing.T) {
	engine := newProductRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"product_id":"a","name":"Pricey","price":"1299.50"},
			{"product_id":"b","name":"Cheap","price":"9.99"},
			{"product_id":"c","name":"Middle","price":"50.00"}
		]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products/featured?limit=2", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Status string `json:"status"`
		Data   []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			DisplayPrice string `json:"display_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "b", env.Data[0].ID)
	assert.Equal(t, "$9.99", env.Data[0].DisplayPrice)
	assert.Equal(t, "c", env.Data[1].ID)
	assert.Equal(t, "$50.00", env.Data[1].DisplayPrice)
}

func TestProductHandler_ListCarriesDisplayPrice(t *testing.T) {
	engine := newProductRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"product_id":"1","name":"Widget","price":"1299.50","stock":3}]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data []struct {
			Name         string `json:"name"`
			DisplayPrice string `json:"display_price"`
			InStock      bool   `json:"in_stock"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "$1,299.50", env.Data[0].DisplayPrice)
	assert.True(t, env.Data[0].InStock)
}
