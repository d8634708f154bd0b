package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/controllers"
	"github.com/yeremiapane/restaurant-guest/middlewares"
)

// SetupRouter merakit facade HTTP lokal untuk rendering layer. Facade ini
// tidak memegang logika sesi sendiri; semuanya lewat client.
func SetupRouter(c *client.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())

	sessionCtrl := controllers.NewSessionController(c)
	cartCtrl := controllers.NewCartController(c)
	orderCtrl := controllers.NewOrderController(c)
	menuCtrl := controllers.NewMenuController(c)

	r.GET("/session", sessionCtrl.GetSession)
	r.POST("/session/open-request", sessionCtrl.RequestOpen)
	r.DELETE("/session", sessionCtrl.ClearSession)

	r.GET("/cart", cartCtrl.GetCart)
	r.POST("/cart/items", cartCtrl.AddItem)
	r.PATCH("/cart/items/:line_id", cartCtrl.UpdateItem)
	r.DELETE("/cart/items/:line_id", cartCtrl.DeleteItem)

	r.POST("/orders", orderCtrl.Checkout)
	r.GET("/orders", orderCtrl.ListOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrder)
	r.POST("/orders/items", orderCtrl.AddItem)
	r.PATCH("/orders/items/:item_id/cancel", orderCtrl.CancelItem)
	r.POST("/orders/payment-request", orderCtrl.RequestPayment)
	r.POST("/assistance", orderCtrl.RequestAssistance)

	r.GET("/menus", menuCtrl.GetMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuDetail)
	r.GET("/categories", menuCtrl.GetCategories)
	r.GET("/categories/:category_id/menus", menuCtrl.GetMenusByCategory)

	return r
}
