package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestop/backend/pkg/router"
)

func TestRoutingAndParams(t *testing.T) {
	r := router.New()
	r.Get("/api/product/{slug}", "product.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(router.Param(req, "slug"))) //nolint:errcheck
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/air-max-90", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "air-max-90", rec.Body.String())
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mw("group"))
	api.Get("/cart", "cart.show", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}, mw("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, []string{"group", "route", "handler"}, order)
}

func TestNestedGroups(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	cart := api.Group("/cart")
	cart.Post("/add", "cart.add", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/add", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestURLReverseResolution(t *testing.T) {
	r := router.New()
	r.Get("/api/orders/{id}", "orders.show", func(w http.ResponseWriter, req *http.Request) {})

	url, err := r.URL("orders.show", map[string]string{"id": "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/abc123", url)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err, "missing params must error")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesListingSorted(t *testing.T) {
	r := router.New()
	r.Post("/api/b", "b.create", func(w http.ResponseWriter, req *http.Request) {})
	r.Get("/api/a", "a.list", func(w http.ResponseWriter, req *http.Request) {})
	r.Get("/api/b", "b.list", func(w http.ResponseWriter, req *http.Request) {})

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/api/a", routes[0].Path)
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)
}

func TestMethodNotAllowed(t *testing.T) {
	r := router.New()
	r.Get("/api/product", "product.list", func(w http.ResponseWriter, req *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/product", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
