package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStripe serves canned list pages and records incoming requests.
type fakeStripe struct {
	mu       sync.Mutex
	requests []*http.Request
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeStripe) recorded() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeStripe) {
	t.Helper()

	fake := &fakeStripe{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := New(Config{
		APIKey:     "sk_test_123",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		PageSize:   2,
	}, logger.Noop())

	return c, fake
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func sessionJSON(id string, created int64, email string, items ...map[string]interface{}) map[string]interface{} {
	data := make([]interface{}, 0, len(items))
	for _, item := range items {
		data = append(data, item)
	}
	return map[string]interface{}{
		"id":           id,
		"object":       "checkout.session",
		"status":       "complete",
		"created":      created,
		"amount_total": 3000,
		"currency":     "RSD",
		"customer_details": map[string]interface{}{
			"email": email,
			"name":  " Ana Petrovic ",
			"phone": "+381 60 000 000",
		},
		"line_items": map[string]interface{}{
			"object":   "list",
			"data":     data,
			"has_more": false,
		},
	}
}

func lineItemJSON(productID string, quantity, unitAmount int64) map[string]interface{} {
	return map[string]interface{}{
		"object":   "item",
		"quantity": quantity,
		"price": map[string]interface{}{
			"id":          "price_" + productID,
			"object":      "price",
			"unit_amount": unitAmount,
			"currency":    "rsd",
			"product":     productID,
		},
	}
}

func listJSON(hasMore bool, items ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"object":   "list",
		"data":     items,
		"has_more": hasMore,
	}
}

func TestListCompletedSessions_Paginates(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)

		switch r.URL.Query().Get("starting_after") {
		case "":
			writeJSON(t, w, http.StatusOK, listJSON(true,
				sessionJSON("cs_1", 1773604800, "a@example.com", lineItemJSON("prod_X", 2, 1500)),
				sessionJSON("cs_2", 1773604900, "b@example.com", lineItemJSON("prod_Y", 1, 2000)),
			))
		case "cs_2":
			writeJSON(t, w, http.StatusOK, listJSON(false,
				sessionJSON("cs_3", 1773605000, "c@example.com", lineItemJSON("prod_X", 1, 1500)),
			))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("starting_after"))
		}
	})

	var ids []string
	err := client.ListCompletedSessions(context.Background(), SessionFilter{}, func(s checkout.Session) error {
		ids = append(ids, s.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_1", "cs_2", "cs_3"}, ids)

	reqs := fake.recorded()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		q := r.URL.Query()
		assert.Equal(t, "complete", q.Get("status"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Contains(t, r.URL.RawQuery, "data.line_items.data.price")
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
	}
}

func TestListCompletedSessions_CreatedRange(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listJSON(false))
	})

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	calls := 0
	err := client.ListCompletedSessions(context.Background(), SessionFilter{CreatedFrom: from, CreatedTo: to}, func(checkout.Session) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	q := reqs[0].URL.Query()
	assert.Equal(t, "1772323200", q.Get("created[gte]"))
	assert.Equal(t, "1775001599", q.Get("created[lte]"))
}

func TestListCompletedSessions_Converts(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listJSON(false,
			sessionJSON("cs_1", 1773604800, "Buyer@Example.com", lineItemJSON("prod_X", 2, 1500)),
		))
	})

	var got []checkout.Session
	err := client.ListCompletedSessions(context.Background(), SessionFilter{}, func(s checkout.Session) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "rsd", s.Currency)
	assert.Equal(t, time.Unix(1773604800, 0).UTC(), s.Created)
	assert.Equal(t, "Ana Petrovic", s.Customer.Name)
	assert.Equal(t, "Buyer@Example.com", s.Customer.Email)
	require.Len(t, s.LineItems, 1)
	assert.Equal(t, int64(2), s.LineItems[0].Quantity)
	assert.Equal(t, "prod_X", s.LineItems[0].Price.ProductID)
	assert.Equal(t, int64(1500), s.LineItems[0].Price.UnitAmount)
	assert.Nil(t, s.LineItems[0].Price.Product)
}

func TestListCompletedSessions_CallbackErrorStops(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listJSON(true,
			sessionJSON("cs_1", 1773604800, "a@example.com"),
			sessionJSON("cs_2", 1773604900, "b@example.com"),
		))
	})

	stop := errors.New("stop")
	err := client.ListCompletedSessions(context.Background(), SessionFilter{}, func(checkout.Session) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Len(t, fake.recorded(), 1)
}

func TestListCompletedSessions_InvalidSession(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		bad := lineItemJSON("prod_X", 1, 1500)
		bad["price"].(map[string]interface{})["product"] = nil
		writeJSON(t, w, http.StatusOK, listJSON(false, sessionJSON("cs_bad", 1773604800, "a@example.com", bad)))
	})

	err := client.ListCompletedSessions(context.Background(), SessionFilter{}, func(checkout.Session) error {
		return nil
	})

	var vErr *checkout.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "cs_bad", vErr.SessionID)
	assert.Equal(t, 1, vErr.LineItem)
	assert.ErrorIs(t, err, checkout.ErrMissingProduct)
}

func TestListCompletedSessions_SetupModeSession(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		setup := sessionJSON("cs_setup", 1773604800, "a@example.com")
		setup["mode"] = "setup"
		setup["currency"] = nil
		setup["amount_total"] = nil
		delete(setup, "line_items")

		writeJSON(t, w, http.StatusOK, listJSON(false,
			setup,
			sessionJSON("cs_paid", 1773604900, "b@example.com", lineItemJSON("prod_X", 1, 1500)),
		))
	})

	var got []checkout.Session
	err := client.ListCompletedSessions(context.Background(), SessionFilter{}, func(s checkout.Session) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cs_setup", got[0].ID)
	assert.Empty(t, got[0].Currency)
	assert.Empty(t, got[0].LineItems)
	assert.Equal(t, "cs_paid", got[1].ID)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":          "prod_X",
			"object":      "product",
			"name":        "Belgrade",
			"active":      true,
			"description": "Live at Dom Omladine",
			"images":      []string{"https://example.com/a.jpg"},
			"metadata":    map[string]string{"city": "Belgrade"},
		})
	})

	p, err := client.GetProduct(context.Background(), "prod_X")
	require.NoError(t, err)
	assert.Equal(t, "Belgrade", p.Name)
	assert.True(t, p.Active)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, p.Images)
	assert.Equal(t, "Belgrade", p.Metadata["city"])

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1/products/prod_X", reqs[0].URL.Path)
}

func TestGetProduct_EmptyID(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := client.GetProduct(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyProductID)
	assert.Empty(t, fake.recorded())
}

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]interface{}{
			"error": map[string]interface{}{
				"type":    "invalid_request_error",
				"message": "No such product: 'prod_missing'",
			},
		})
	})

	_, err := client.GetProduct(context.Background(), "prod_missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No such product: 'prod_missing'", apiErr.Message)
	assert.True(t, strings.HasPrefix(err.Error(), "Stripe API error: "))
}

func TestListActiveProducts(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, listJSON(false,
			map[string]interface{}{"id": "prod_A", "object": "product", "name": "Novi Sad", "active": true},
			map[string]interface{}{"id": "prod_B", "object": "product", "name": "Belgrade", "active": true},
		))
	})

	products, err := client.ListActiveProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod_A", products[0].ID)
	assert.Equal(t, "Belgrade", products[1].Name)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1/products", reqs[0].URL.Path)
	assert.Equal(t, "true", reqs[0].URL.Query().Get("active"))
}

func TestFirstActivePrice(t *testing.T) {
	t.Parallel()

	t.Run("returns first price", func(t *testing.T) {
		t.Parallel()

		client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, listJSON(true,
				map[string]interface{}{"id": "price_1", "object": "price", "unit_amount": 150000, "currency": "rsd", "product": "prod_A"},
			))
		})

		price, err := client.FirstActivePrice(context.Background(), "prod_A")
		require.NoError(t, err)
		require.NotNil(t, price)
		assert.Equal(t, int64(150000), price.UnitAmount)
		assert.Equal(t, "rsd", price.Currency)

		reqs := fake.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, "prod_A", reqs[0].URL.Query().Get("product"))
		assert.Equal(t, "true", reqs[0].URL.Query().Get("active"))
	})

	t.Run("no active price", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, listJSON(false))
		})

		price, err := client.FirstActivePrice(context.Background(), "prod_A")
		require.NoError(t, err)
		assert.Nil(t, price)
	})
}

func TestCreateProductAndPrice(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/products":
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"id": "prod_new", "object": "product", "name": r.PostForm.Get("name"), "active": true,
			})
		case "/v1/prices":
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"id": "price_new", "object": "price", "unit_amount": 150000, "currency": "rsd", "product": "prod_new",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	product, err := client.CreateProduct(context.Background(), ProductInput{
		Name:           "Belgrade",
		Description:    "Live",
		Images:         []string{"https://example.com/a.jpg"},
		Metadata:       map[string]string{"city": "Belgrade"},
		IdempotencyKey: "key-product",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod_new", product.ID)
	assert.Equal(t, "Belgrade", product.Name)

	price, err := client.CreatePrice(context.Background(), PriceInput{
		ProductID:      product.ID,
		UnitAmount:     150000,
		Currency:       "RSD",
		IdempotencyKey: "key-price",
	})
	require.NoError(t, err)
	assert.Equal(t, "price_new", price.ID)

	reqs := fake.recorded()
	require.Len(t, reqs, 2)

	assert.Equal(t, "key-product", reqs[0].Header.Get("Idempotency-Key"))
	assert.Equal(t, "Belgrade", reqs[0].PostForm.Get("name"))
	assert.Equal(t, "Live", reqs[0].PostForm.Get("description"))
	assert.Equal(t, "Belgrade", reqs[0].PostForm.Get("metadata[city]"))

	assert.Equal(t, "key-price", reqs[1].Header.Get("Idempotency-Key"))
	assert.Equal(t, "prod_new", reqs[1].PostForm.Get("product"))
	assert.Equal(t, "150000", reqs[1].PostForm.Get("unit_amount"))
	assert.Equal(t, "rsd", reqs[1].PostForm.Get("currency"))
}
