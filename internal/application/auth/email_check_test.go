package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/infrastructure/gateway"
)

func newChecker(t *testing.T, debounce time.Duration, handler http.HandlerFunc) *EmailChecker {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := gateway.NewClient(srv.URL, 5*time.Second, zap.NewNop())
	return NewEmailChecker(client, debounce, zap.NewNop())
}

func TestEmailChecker_DebouncesRapidInput(t *testing.T) {
	var requests atomic.Int32
	checker := newChecker(t, 30*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonResponse(w, 200, `{"exists":true}`)
	})

	var mu sync.Mutex
	var results []ExistsResult
	collect := func(r ExistsResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	// simulate typing: each keystroke supersedes the last check
	checker.Check("a@example.com", collect)
	checker.Check("ab@example.com", collect)
	checker.Check("abc@example.com", collect)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "abc@example.com", results[0].Email)
	assert.True(t, results[0].Exists)
	assert.Equal(t, int32(1), requests.Load(), "superseded checks must not hit the network")
}

func TestEmailChecker_InvalidEmailNoLookup(t *testing.T) {
	var requests atomic.Int32
	checker := newChecker(t, time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	checker.Check("not-an-email", func(ExistsResult) {
		t.Error("callback must not fire for invalid input")
	})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), requests.Load())
}

func TestEmailChecker_CancelDropsPendingCheck(t *testing.T) {
	var requests atomic.Int32
	checker := newChecker(t, 30*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonResponse(w, 200, `{"exists":false}`)
	})

	checker.Check("a@example.com", func(ExistsResult) {
		t.Error("cancelled check must not deliver a result")
	})
	checker.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), requests.Load())
}

func TestEmailChecker_LookupFailureMeansNotTaken(t *testing.T) {
	checker := newChecker(t, time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, 500, `{"status":"error","message":"boom"}`)
	})

	done := make(chan ExistsResult, 1)
	checker.Check("a@example.com", func(r ExistsResult) { done <- r })

	select {
	case r := <-done:
		assert.False(t, r.Exists)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestEmailChecker_CheckNow(t *testing.T) {
	checker := newChecker(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "taken@example.com", r.URL.Query().Get("email"))
		jsonResponse(w, 200, `{"exists":true}`)
	})

	result, err := checker.CheckNow(context.Background(), "taken@example.com")
	require.NoError(t, err)
	assert.True(t, result.Exists)
}
