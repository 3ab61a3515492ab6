package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mpawlak/a11y"
	a11yhttp "github.com/mpawlak/a11y/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns rendered page with title and links", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en"><head><title>Storefront</title></head>
<body>
<a href="/cart">Cart</a>
<a href="/checkout">Checkout</a>
</body></html>`))
		}))
		defer srv.Close()

		f := a11yhttp.NewFetcher()
		defer f.Close()

		page, err := f.Fetch(context.Background(), srv.URL+"/")
		require.NoError(t, err)

		assert.Equal(t, srv.URL+"/", page.URL)
		assert.Equal(t, "Storefront", page.Title)
		assert.Contains(t, page.HTML, "Storefront")
		assert.Equal(t, []string{srv.URL + "/cart", srv.URL + "/checkout"}, page.Links)
	})

	t.Run("returns EUNAVAILABLE for error status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		f := a11yhttp.NewFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL+"/broken")
		require.Error(t, err)
		assert.Equal(t, a11y.EUNAVAILABLE, a11y.ErrorCode(err))
	})

	t.Run("returns ETIMEOUT when the client timeout expires", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		f := a11yhttp.NewFetcher(a11yhttp.WithTimeout(50 * time.Millisecond))
		defer f.Close()

		// The caller's context never expires; the client-level timeout
		// must still map to ETIMEOUT.
		_, err := f.Fetch(context.Background(), srv.URL+"/slow")
		require.Error(t, err)
		assert.Equal(t, a11y.ETIMEOUT, a11y.ErrorCode(err))
	})

	t.Run("returns EUNAVAILABLE when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // Shut down before fetching

		f := a11yhttp.NewFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL+"/")
		require.Error(t, err)
		assert.Equal(t, a11y.EUNAVAILABLE, a11y.ErrorCode(err))
	})
}
