package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// OrderController meneruskan aksi order ke order service lewat client.
type OrderController struct {
	Client *client.Client
}

func NewOrderController(c *client.Client) *OrderController {
	return &OrderController{Client: c}
}

// Checkout -> buat order dari isi cart.
func (oc *OrderController) Checkout(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req) // body opsional

	order, err := oc.Client.Checkout(c.Request.Context(), req.Note)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.InfoLogger.Printf("order %s created for table %d", order.OrderCode, order.Table.ID)
	utils.RespondJSON(c, http.StatusCreated, "Order submitted", order)
}

// ListOrders -> daftar order meja ini (dipanggil ulang tiap change-signal).
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.Client.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrder -> detail satu order.
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Client.Orders.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// AddItem -> tambah item ke order yang sedang berjalan.
func (oc *OrderController) AddItem(c *gin.Context) {
	var item models.CreateOrderItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Client.AddToActiveOrder(c.Request.Context(), item)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added to order", order)
}

// CancelItem -> batalkan satu item order.
func (oc *OrderController) CancelItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Client.CancelOrderItem(c.Request.Context(), uint(itemID)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order item cancelled", nil)
}

// RequestPayment -> minta staff konfirmasi pembayaran; QR datang via push.
func (oc *OrderController) RequestPayment(c *gin.Context) {
	var req struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Client.RequestPayment(c.Request.Context(), req.Method); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusAccepted, "Payment requested, waiting for staff", nil)
}

// RequestAssistance -> panggil staff ke meja.
func (oc *OrderController) RequestAssistance(c *gin.Context) {
	if err := oc.Client.RequestAssistance(c.Request.Context()); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusAccepted, "Staff has been called", nil)
}
