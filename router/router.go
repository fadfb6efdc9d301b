package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hellodine/controllers"
	"github.com/yeremiapane/hellodine/middlewares"
	"github.com/yeremiapane/hellodine/utils"
)

// Deps are the controllers behind the HTTP surface.
type Deps struct {
	Webhook    *controllers.WebhookController
	Orders     *controllers.OrderController
	Billing    *controllers.BillingController
	KDS        *controllers.KDSController
	CORSOrigin string
	// WebhookLimiter is optional; nil disables rate limiting on the webhook.
	WebhookLimiter *middlewares.RateLimiter
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Webhook dari WhatsApp Cloud API, tanpa JWT
	webhook := api.Group("/webhook")
	if d.WebhookLimiter != nil {
		webhook.Use(d.WebhookLimiter.RateLimit())
	}
	{
		webhook.GET("/:restaurant_id", d.Webhook.VerifyWebhook)
		webhook.POST("/:restaurant_id", d.Webhook.ReceiveWebhook)
	}

	// ORDERS (kitchen board)
	orders := api.Group("/orders")
	orders.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(utils.RoleChef, utils.RoleStaff))
	{
		orders.GET("", d.Orders.ListOrders)
		orders.GET("/:order_id", d.Orders.GetOrder)
		orders.PATCH("/:order_id/status", d.Orders.UpdateOrderStatus)
	}

	// BILLING (counter)
	billing := api.Group("/billing")
	billing.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(utils.RoleStaff))
	{
		billing.POST("/sessions/:session_id/bill", d.Billing.GenerateBill)
		billing.POST("/bills/:bill_id/pay", d.Billing.PayBill)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/kitchen/:branch_id", d.KDS.KitchenSocket)
	}

	return r
}
