package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/services"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// MenuController memproxy menu/category read API untuk rendering layer.
type MenuController struct {
	Client *client.Client
}

func NewMenuController(c *client.Client) *MenuController {
	return &MenuController{Client: c}
}

func menuQueryFrom(c *gin.Context) services.MenuQuery {
	q := services.MenuQuery{Search: c.Query("search")}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil {
		q.Size = size
	}
	if cat, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		q.CategoryID = uint(cat)
	}
	return q
}

// GetMenus -> list menu publik dengan paging/pencarian.
func (mc *MenuController) GetMenus(c *gin.Context) {
	page, err := mc.Client.Menus.GetPublicMenus(c.Request.Context(), menuQueryFrom(c))
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", page)
}

// GetMenuDetail -> detail satu menu.
func (mc *MenuController) GetMenuDetail(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Client.Menus.GetMenuDetail(c.Request.Context(), uint(menuID))
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// GetMenusByCategory -> list menu dalam satu kategori.
func (mc *MenuController) GetMenusByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	page, err := mc.Client.Menus.GetMenusByCategory(c.Request.Context(), uint(categoryID), menuQueryFrom(c))
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", page)
}

// GetCategories -> daftar kategori menu.
func (mc *MenuController) GetCategories(c *gin.Context) {
	page, err := mc.Client.Menus.GetCategories(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", page)
}
