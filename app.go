package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hellodine/bot"
	"github.com/yeremiapane/hellodine/config"
	"github.com/yeremiapane/hellodine/controllers"
	"github.com/yeremiapane/hellodine/genai"
	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/middlewares"
	"github.com/yeremiapane/hellodine/router"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
	"gorm.io/gorm"
)

// App is the wired HTTP surface plus what shutdown needs to drain.
type App struct {
	Router  *gin.Engine
	Webhook *controllers.WebhookController
	Hub     *kds.Hub
}

// NewApp wires services, the bot and controllers over db. now may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, now services.Clock) (*App, error) {
	sessions := services.NewSessionService(db, now)
	orders := services.NewOrderService(db, now, cfg.CheckoutBucket)
	bills := services.NewBillService(db, now)
	hub := kds.NewHub()

	deps := bot.Deps{
		Sessions: sessions,
		Menu:     services.NewMenuService(db),
		Carts:    services.NewCartService(db),
		Orders:   orders,
		Bills:    bills,
		Notifier: hub,
	}

	var capability intent.Capability
	if cfg.GeminiAPIKey != "" {
		client := genai.NewClient(cfg.GeminiAPIKey, genai.WithBaseURL(cfg.GeminiBaseURL), genai.WithModel(cfg.GeminiModel))
		capability = client
		deps.Answerer = client
	} else {
		utils.InfoLogger.Println("GEMINI_API_KEY not set, classification uses phrases and reply ids only")
	}

	classifier, err := intent.NewClassifier(capability)
	if err != nil {
		return nil, fmt.Errorf("load intent phrases: %w", err)
	}
	deps.Classifier = classifier

	webhook := controllers.NewWebhookController(bot.New(deps), sessions, controllers.CloudSenderFactory(cfg.WAAPIURL), cfg.WAVerifyToken)

	var limiter *middlewares.RateLimiter
	if cfg.WebhookRPS > 0 {
		limiter = middlewares.NewRateLimiter(float64(cfg.WebhookRPS), cfg.WebhookRPS*2)
	}

	r := router.SetupRouter(router.Deps{
		Webhook:        webhook,
		Orders:         controllers.NewOrderController(orders, hub),
		Billing:        controllers.NewBillingController(sessions, bills),
		KDS:            controllers.NewKDSController(hub),
		CORSOrigin:     cfg.CORSOrigin,
		WebhookLimiter: limiter,
	})
	return &App{Router: r, Webhook: webhook, Hub: hub}, nil
}
