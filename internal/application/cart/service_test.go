package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/application/session"
	"github.com/ecomm/storefront/internal/domain/customer"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/infrastructure/store"
)

type fixture struct {
	svc      *Service
	sessions *session.Manager
	local    store.Store
}

func newFixture(t *testing.T, cartHandler, productHandler http.HandlerFunc) *fixture {
	t.Helper()
	log := zap.NewNop()

	cartSrv := httptest.NewServer(cartHandler)
	t.Cleanup(cartSrv.Close)
	productSrv := httptest.NewServer(productHandler)
	t.Cleanup(productSrv.Close)

	local := store.NewMemoryStore()
	sessions := session.NewManager(local, log)
	carts := gateway.NewClient(cartSrv.URL, 5*time.Second, log, gateway.WithTokenSource(sessions.Token))
	products := gateway.NewClient(productSrv.URL, 5*time.Second, log)

	return &fixture{
		svc:      NewService(carts, products, sessions, local, log),
		sessions: sessions,
		local:    local,
	}
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func widgetHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, 200, `{"status":"success","data":{"product_id":"7","name":"Widget","price":"19.99","images":[{"image_id":"a","path":"/img/a.png","is_primary":1}]}}`)
}

func login(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.sessions.Establish(context.Background(), "tok-1",
		customer.Customer{CustomerID: "c1", Email: "a@b.co"}))
}

func TestGuestAdd_FetchesProductAndPersists(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("guest flow must not call the cart service")
	}, widgetHandler)

	c, err := f.svc.AddItem(context.Background(), "7", 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Widget", c.Items[0].Name)
	assert.Equal(t, "/img/a.png", c.Items[0].ImagePath)
	assert.True(t, decimal.RequireFromString("39.98").Equal(c.Total))

	// the snapshot survives a new service instance over the same store
	raw, err := f.local.Get(context.Background(), KeyGuestCart)
	require.NoError(t, err)
	var persisted map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.NotEmpty(t, persisted["items"])
}

func TestGuestAdd_MergesQuantities(t *testing.T) {
	f := newFixture(t, http.NotFound, widgetHandler)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "7", 1)
	require.NoError(t, err)
	c, err := f.svc.AddItem(ctx, "7", 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestGuestSetQuantityAndRemove(t *testing.T) {
	f := newFixture(t, http.NotFound, widgetHandler)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "7", 2)
	require.NoError(t, err)

	c, err := f.svc.SetQuantity(ctx, "7", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)

	c, err = f.svc.RemoveItem(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestGuestCart_CorruptSnapshotStartsFresh(t *testing.T) {
	f := newFixture(t, http.NotFound, widgetHandler)
	ctx := context.Background()

	require.NoError(t, f.local.Set(ctx, KeyGuestCart, "{broken"))

	c, err := f.svc.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAuthenticatedAdd_UsesCartService(t *testing.T) {
	var sawAuth string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost:
			jsonResponse(w, 200, `{"status":"success"}`)
		default:
			jsonResponse(w, 200, `{"status":"success","data":{"items":[{"product_id":"7","name":"Widget","price":"19.99","quantity":1}],"total":"19.99"}}`)
		}
	}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("authenticated flow must not fetch the product locally")
	})
	login(t, f)

	c, err := f.svc.AddItem(context.Background(), "7", 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Bearer tok-1", sawAuth)
}

func TestMerge_PushesGuestLinesAndClearsSnapshot(t *testing.T) {
	var added []string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID string `json:"product_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		added = append(added, body.ProductID)
		jsonResponse(w, 200, `{"status":"success"}`)
	}, widgetHandler)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "7", 2)
	require.NoError(t, err)

	login(t, f)
	require.NoError(t, f.svc.Merge(ctx))

	assert.Equal(t, []string{"7"}, added)
	_, err = f.local.Get(ctx, KeyGuestCart)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestClear_Guest(t *testing.T) {
	f := newFixture(t, http.NotFound, widgetHandler)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "7", 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx))

	c, err := f.svc.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, http.NotFound, widgetHandler)
	_, err := f.svc.AddItem(context.Background(), "7", 0)
	assert.Error(t, err)
}
