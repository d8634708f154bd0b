package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/router"
)

func TestCheckoutFromCart(t *testing.T) {
	var gotReq models.CreateOrderRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/orders" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			respondEnvelope(w, http.StatusCreated, true, "Order submitted", models.OrderResponse{
				ID: 42, OrderCode: "ORD-42", Status: models.OrderPending,
				Table: models.TableInfo{ID: 7, Name: "Table 7"},
			})
			return
		}
		respondEnvelope(w, http.StatusNotFound, false, "not found", nil)
	}))
	defer backend.Close()

	guest := setupGuestClient(t, backend.URL)
	require.NoError(t, guest.Store.SetSessionToken("abc"))
	guest.Machine.InitJoined(7, true)
	guest.Cart.Add(models.Menu{ID: 10, Name: "Nasi Goreng", Price: 25000}, 2, "extra pedas")
	r := router.SetupRouter(guest)

	body, _ := json.Marshal(map[string]string{"note": "birthday table"})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(7), gotReq.TableID)
	require.Len(t, gotReq.Items, 1)
	assert.Equal(t, "extra pedas", gotReq.Items[0].Note)
	assert.Equal(t, "birthday table", gotReq.Note)

	// checkout sukses: cart kosong, order marker dipersist
	assert.Empty(t, guest.Cart.Items())
	assert.Equal(t, uint(42), guest.Store.ActiveOrderMarker())
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	guest := setupGuestClient(t, "http://127.0.0.1:0")
	require.NoError(t, guest.Store.SetSessionToken("abc"))
	guest.Machine.InitJoined(7, true)
	r := router.SetupRouter(guest)

	req, _ := http.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestPaymentNeedsActiveOrder(t *testing.T) {
	guest := setupGuestClient(t, "http://127.0.0.1:0")
	require.NoError(t, guest.Store.SetSessionToken("abc"))
	guest.Machine.InitJoined(7, true)
	r := router.SetupRouter(guest)

	body, _ := json.Marshal(map[string]string{"method": "qris"})
	req, _ := http.NewRequest(http.MethodPost, "/orders/payment-request", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "no active order")
}

func TestRequestAssistance(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respondEnvelope(w, http.StatusAccepted, true, "Staff notified", nil)
	}))
	defer backend.Close()

	guest := setupGuestClient(t, backend.URL)
	guest.Machine.InitJoined(7, false)
	r := router.SetupRouter(guest)

	req, _ := http.NewRequest(http.MethodPost, "/assistance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/orders/assistance/7", gotPath)
}
