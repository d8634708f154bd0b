package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yeremiapane/restaurant-guest/models"
)

// OrderService membungkus order service milik backend: create, list, tambah
// item, batalkan item, minta pembayaran, panggil staff.
type OrderService struct {
	API *APIClient
}

func NewOrderService(api *APIClient) *OrderService {
	return &OrderService{API: api}
}

func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.OrderResponse, error) {
	var order models.OrderResponse
	err := s.API.do(ctx, http.MethodPost, "/orders", req, &order)
	return order, err
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (models.OrderResponse, error) {
	var order models.OrderResponse
	err := s.API.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order)
	return order, err
}

// ListMyOrders mengambil seluruh order meja ini berdasarkan Table-Token.
func (s *OrderService) ListMyOrders(ctx context.Context) ([]models.OrderResponse, error) {
	var orders []models.OrderResponse
	err := s.API.do(ctx, http.MethodGet, "/orders/my-orders", nil, &orders)
	return orders, err
}

func (s *OrderService) AddOrderItem(ctx context.Context, orderID uint, item models.CreateOrderItem) (models.OrderResponse, error) {
	var order models.OrderResponse
	err := s.API.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/items", orderID), item, &order)
	return order, err
}

func (s *OrderService) CancelOrderItem(ctx context.Context, itemID uint) error {
	path := fmt.Sprintf("/orders/items/%d/status?status=%s", itemID, models.OrderCancelled)
	return s.API.do(ctx, http.MethodPatch, path, nil, nil)
}

// RequestPayment meminta staff mengkonfirmasi pembayaran; QR pembayaran datang
// lewat push channel, bukan respons ini.
func (s *OrderService) RequestPayment(ctx context.Context, orderID uint, method string) error {
	path := fmt.Sprintf("/orders/%d/payment-request?method=%s", orderID, url.QueryEscape(method))
	return s.API.do(ctx, http.MethodPost, path, nil, nil)
}

func (s *OrderService) RequestAssistance(ctx context.Context, tableID uint) error {
	return s.API.do(ctx, http.MethodPost, fmt.Sprintf("/orders/assistance/%d", tableID), nil, nil)
}
