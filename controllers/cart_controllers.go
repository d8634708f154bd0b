package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// CartController mengekspos operasi cart lokal.
type CartController struct {
	Client *client.Client
}

func NewCartController(c *client.Client) *CartController {
	return &CartController{Client: c}
}

// GetCart -> isi cart beserta total.
func (cc *CartController) GetCart(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Cart contents", gin.H{
		"items":        cc.Client.Cart.Items(),
		"total":        cc.Client.Cart.Total(),
		"totalItems":   cc.Client.Cart.TotalItems(),
		"displayTotal": cc.Client.Cart.DisplayTotal(),
	})
}

// AddItem -> tambah item menu ke cart. Snapshot menu diambil dari menu service
// supaya nama/harga di cart konsisten dengan backend.
func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		MenuID   uint   `json:"menu_id" binding:"required"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := cc.Client.Menus.GetMenuDetail(c.Request.Context(), req.MenuID)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	if !menu.Available {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("menu %q is not available", menu.Name))
		return
	}

	line := cc.Client.Cart.Add(menu, req.Quantity, req.Notes)
	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", line)
}

// UpdateItem -> ubah jumlah satu baris cart (nol menghapus).
func (cc *CartController) UpdateItem(c *gin.Context) {
	lineID := c.Param("line_id")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cc.Client.Cart.UpdateQuantity(lineID, req.Quantity)
	utils.RespondJSON(c, http.StatusOK, "Cart updated", gin.H{
		"items": cc.Client.Cart.Items(),
	})
}

// DeleteItem -> hapus satu baris cart.
func (cc *CartController) DeleteItem(c *gin.Context) {
	cc.Client.Cart.Remove(c.Param("line_id"))
	utils.RespondJSON(c, http.StatusOK, "Item removed", nil)
}
