package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hellodine/bot"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
	"github.com/yeremiapane/hellodine/whatsapp"
)

const (
	maxWebhookBody = 1 << 20
	messageTimeout = 30 * time.Second
)

// MessageHandler runs one inbound message through the conversation pipeline.
type MessageHandler interface {
	Handle(ctx context.Context, in bot.Inbound) (*bot.State, error)
}

// TenantStore loads the restaurant a webhook URL belongs to.
type TenantStore interface {
	Restaurant(ctx context.Context, restaurantID uint) (*models.Restaurant, error)
}

// SenderFactory returns the outbound sender for a restaurant's business number.
type SenderFactory func(restaurant *models.Restaurant) whatsapp.Sender

type WebhookController struct {
	Bot         MessageHandler
	Tenants     TenantStore
	SenderFor   SenderFactory
	VerifyToken string

	wg sync.WaitGroup
}

func NewWebhookController(handler MessageHandler, tenants TenantStore, senderFor SenderFactory, verifyToken string) *WebhookController {
	return &WebhookController{
		Bot:         handler,
		Tenants:     tenants,
		SenderFor:   senderFor,
		VerifyToken: verifyToken,
	}
}

// CloudSenderFactory sends through the Cloud API with each restaurant's own token.
func CloudSenderFactory(baseURL string) SenderFactory {
	return func(restaurant *models.Restaurant) whatsapp.Sender {
		return whatsapp.NewCloudSender(baseURL, restaurant.WAPhoneNumberID, restaurant.WAAccessToken)
	}
}

// Wait blocks until every message already accepted has been answered.
func (wc *WebhookController) Wait() {
	wc.wg.Wait()
}

// VerifyWebhook answers the subscription handshake.
func (wc *WebhookController) VerifyWebhook(c *gin.Context) {
	restaurant, ok := wc.restaurant(c)
	if !ok {
		return
	}

	expected := restaurant.WAVerifyToken
	if expected == "" {
		expected = wc.VerifyToken
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	if mode != "subscribe" || expected == "" || token != expected {
		utils.RespondError(c, http.StatusForbidden, errors.New("webhook verification failed"))
		return
	}
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// ReceiveWebhook accepts a delivery and answers each message in the background.
// The provider always gets 200 for a well-addressed delivery so it does not retry.
func (wc *WebhookController) ReceiveWebhook(c *gin.Context) {
	restaurant, ok := wc.restaurant(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if restaurant.WAAppSecret != "" && !whatsapp.VerifySignature(body, c.GetHeader(whatsapp.SignatureHeader), restaurant.WAAppSecret) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid webhook signature"))
		return
	}

	messages, err := whatsapp.ParseWebhook(body)
	if err != nil {
		utils.ErrorLogger.WithField("restaurant_id", restaurant.ID).Warnf("ignoring webhook delivery: %v", err)
		utils.RespondJSON(c, http.StatusOK, "ignored", nil)
		return
	}

	for _, msg := range messages {
		wc.wg.Add(1)
		go wc.dispatch(restaurant, msg)
	}
	utils.RespondJSON(c, http.StatusOK, "received", gin.H{"messages": len(messages)})
}

// dispatch runs one message in its own unit of work. A panic is contained to the message.
func (wc *WebhookController) dispatch(restaurant *models.Restaurant, msg whatsapp.InboundMessage) {
	defer wc.wg.Done()

	fields := logrus.Fields{
		"restaurant_id": restaurant.ID,
		"from":          msg.From,
		"message_id":    msg.ID,
	}
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.WithFields(fields).Errorf("panic while handling message: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	st, err := wc.Bot.Handle(ctx, bot.Inbound{
		RestaurantID:  restaurant.ID,
		PhoneNumberID: msg.PhoneNumberID,
		From:          msg.From,
		MessageID:     msg.ID,
		Type:          msg.Type,
		Text:          msg.Text,
	})
	if err != nil {
		fields["graph_error"] = err.Error()
	}
	if st == nil || st.Response == nil || msg.From == "" {
		return
	}

	if err := Deliver(ctx, wc.SenderFor(restaurant), msg.From, st.Response); err != nil {
		utils.ErrorLogger.WithFields(fields).Errorf("failed to send reply: %v", err)
	}
}

// Deliver sends a bot reply with the matching WhatsApp message type.
func Deliver(ctx context.Context, sender whatsapp.Sender, to string, resp *bot.Response) error {
	switch resp.Type {
	case bot.ButtonsResponse:
		buttons := make([]whatsapp.Button, len(resp.Buttons))
		for i, b := range resp.Buttons {
			buttons[i] = whatsapp.Button{ID: b.ID, Title: b.Title}
		}
		return sender.SendButtons(ctx, to, resp.Body, buttons)
	case bot.ListResponse:
		sections := make([]whatsapp.Section, len(resp.Sections))
		for i, s := range resp.Sections {
			rows := make([]whatsapp.Row, len(s.Rows))
			for j, r := range s.Rows {
				rows[j] = whatsapp.Row{ID: r.ID, Title: r.Title, Description: r.Description}
			}
			sections[i] = whatsapp.Section{Title: s.Title, Rows: rows}
		}
		return sender.SendList(ctx, to, resp.Body, resp.ButtonLabel, sections)
	case bot.TextResponse, "":
		return sender.SendText(ctx, to, resp.Body)
	default:
		return fmt.Errorf("unknown response type %q", resp.Type)
	}
}

func (wc *WebhookController) restaurant(c *gin.Context) (*models.Restaurant, bool) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant_id"))
		return nil, false
	}
	restaurant, err := wc.Tenants.Restaurant(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrUnknownTenant) {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	return restaurant, true
}
