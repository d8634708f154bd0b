package models

import "time"

// Status pesanan mengikuti enumerasi backend.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

type OrderItemResponse struct {
	ID       uint    `json:"id"`
	MenuName string  `json:"menuName"`
	ImageUrl string  `json:"imageUrl,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
	Note     string  `json:"note,omitempty"`
	Amount   float64 `json:"amount"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderCode   string              `json:"orderCode"`
	Table       TableInfo           `json:"table"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
	Items       []OrderItemResponse `json:"items"`
}

// CreateOrderRequest adalah payload checkout ke order service.
type CreateOrderRequest struct {
	TableID uint              `json:"tableId"`
	Items   []CreateOrderItem `json:"items"`
	Note    string            `json:"note,omitempty"`
}

type CreateOrderItem struct {
	MenuID   uint   `json:"menuId"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}
