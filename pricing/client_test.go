package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req lookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"quinoa", "tofu"}, req.Items)

		_ = json.NewEncoder(w).Encode(Quote{
			Prices: map[string]ItemPrice{
				"quinoa": {Price: 4.99, Store: "Kroger"},
			},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	quote, err := client.Lookup(context.Background(), []string{"quinoa", "tofu"})
	require.NoError(t, err)
	require.Len(t, quote.Prices, 1)
	require.Equal(t, 4.99, quote.Prices["quinoa"].Price)
	require.Equal(t, "Kroger", quote.Prices["quinoa"].Store)
}

func TestLookupServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	_, err := client.Lookup(context.Background(), []string{"quinoa"})
	require.Error(t, err)
}

func TestLookupEmptyEndpoint(t *testing.T) {
	client := NewClient("", time.Second)
	_, err := client.Lookup(context.Background(), []string{"quinoa"})
	require.Error(t, err)
}

func TestLookupNilPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	quote, err := client.Lookup(context.Background(), []string{"quinoa"})
	require.NoError(t, err)
	require.NotNil(t, quote.Prices)
	require.Empty(t, quote.Prices)
}
