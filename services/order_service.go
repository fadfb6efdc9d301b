package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

// DefaultCheckoutBucket is the width of the idempotency time bucket.
const DefaultCheckoutBucket = 30 * time.Second

const cartHashDomain = "hellodine/cart-checkout/v1"

// ActiveOrderStatuses are the statuses shown on the kitchen board.
var ActiveOrderStatuses = []models.OrderStatus{
	models.OrderNew,
	models.OrderAccepted,
	models.OrderPreparing,
	models.OrderReady,
}

// OrderService converts carts into kitchen orders.
type OrderService struct {
	db     *gorm.DB
	now    Clock
	bucket time.Duration
}

func NewOrderService(db *gorm.DB, now Clock, bucket time.Duration) *OrderService {
	if bucket <= 0 {
		bucket = DefaultCheckoutBucket
	}
	return &OrderService{db: db, now: orNow(now), bucket: bucket}
}

type hashLine struct {
	Item     uint `json:"item"`
	Quantity int  `json:"qty"`
	Variant  uint `json:"variant"`
}

type hashInput struct {
	Session uint       `json:"session"`
	Bucket  int64      `json:"bucket"`
	Lines   []hashLine `json:"lines"`
}

// CartHash fingerprints a cart's content within a time bucket. Line order does
// not affect the result.
func CartHash(sessionID uint, bucket int64, lines []models.CartLine) string {
	in := hashInput{Session: sessionID, Bucket: bucket, Lines: make([]hashLine, len(lines))}
	for i, l := range lines {
		var variant uint
		if l.VariantID != nil {
			variant = *l.VariantID
		}
		in.Lines[i] = hashLine{Item: l.MenuItemID, Quantity: l.Quantity, Variant: variant}
	}
	sort.Slice(in.Lines, func(i, j int) bool {
		a, b := in.Lines[i], in.Lines[j]
		if a.Item != b.Item {
			return a.Item < b.Item
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Quantity < b.Quantity
	})

	data, _ := json.Marshal(in)
	h := sha256.New()
	h.Write([]byte(cartHashDomain))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *OrderService) bucketOf(t time.Time) int64 {
	return t.Unix() / int64(s.bucket/time.Second)
}

// Checkout validates the session's cart and turns it into an order in one
// transaction. Precondition failures return *CheckoutError and leave no order.
func (s *OrderService) Checkout(ctx context.Context, sessionID uint) (*models.Order, error) {
	now := s.now()
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Preload("Table").First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &CheckoutError{Reason: ReasonSessionInactive}
			}
			return err
		}
		if !session.IsActive() {
			return &CheckoutError{Reason: ReasonSessionInactive}
		}

		cart, err := findOpenCart(tx, sessionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckoutError{Reason: ReasonCartEmpty}
		}
		if err != nil {
			return err
		}
		// Totals are rebuilt from the same menu rows the order lines snapshot
		if err := recomputeCart(tx, cart); err != nil {
			return err
		}
		if err := tx.First(cart, cart.ID).Error; err != nil {
			return err
		}

		var lines []models.CartLine
		if err := tx.Preload("Modifiers").Preload("MenuItem").Preload("Variant").
			Where("cart_id = ?", cart.ID).
			Order("id").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return &CheckoutError{Reason: ReasonCartEmpty}
		}

		for _, l := range lines {
			if l.MenuItem.ID == 0 {
				return &CheckoutError{Reason: ReasonItemUnavailable, Item: fmt.Sprintf("item #%d", l.MenuItemID)}
			}
			if !l.MenuItem.IsAvailable {
				return &CheckoutError{Reason: ReasonItemUnavailable, Item: l.MenuItem.Name}
			}
			if l.Variant != nil && !l.Variant.IsAvailable {
				return &CheckoutError{Reason: ReasonItemUnavailable, Item: fmt.Sprintf("%s (%s)", l.MenuItem.Name, l.Variant.Name)}
			}
		}

		bucket := s.bucketOf(now)
		hash := CartHash(sessionID, bucket, lines)
		previous := CartHash(sessionID, bucket-1, lines)

		var dup int64
		if err := tx.Model(&models.Order{}).Where("cart_hash IN ?", []string{hash, previous}).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return &CheckoutError{Reason: ReasonDuplicate}
		}

		var parentID *uint
		var parent models.Order
		err = tx.Where("session_id = ? AND status <> ?", sessionID, models.OrderCancelled).Order("id DESC").First(&parent).Error
		switch {
		case err == nil:
			parentID = &parent.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		order = models.Order{
			BranchID:      session.BranchID,
			TableID:       session.TableID,
			SessionID:     sessionID,
			OrderNumber:   newReference("ORD"),
			CartHash:      hash,
			ParentOrderID: parentID,
			Status:        models.OrderNew,
			Subtotal:      cart.Subtotal,
			CGST:          cart.CGST,
			SGST:          cart.SGST,
			ServiceCharge: cart.ServiceCharge,
			Discount:      cart.Discount,
			RoundOff:      cart.RoundOff,
			Total:         cart.Total,
			Lines:         orderLinesFrom(lines),
		}
		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &CheckoutError{Reason: ReasonDuplicate}
			}
			return err
		}

		res := tx.Model(&models.Cart{}).
			Where("id = ? AND status = ?", cart.ID, models.CartOpen).
			Update("status", models.CartCheckedOut)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &CheckoutError{Reason: ReasonDuplicate}
		}

		order.Table = session.Table
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func orderLinesFrom(lines []models.CartLine) []models.OrderLine {
	out := make([]models.OrderLine, len(lines))
	for i, l := range lines {
		modifiers := make([]models.OrderLineModifier, len(l.Modifiers))
		for j, m := range l.Modifiers {
			modifiers[j] = models.OrderLineModifier{
				ModifierID:         m.ModifierID,
				NameSnapshot:       m.NameSnapshot,
				PriceDeltaSnapshot: m.PriceDeltaSnapshot,
			}
		}

		var variantName string
		if l.Variant != nil {
			variantName = l.Variant.Name
		}

		out[i] = models.OrderLine{
			MenuItemID:          l.MenuItemID,
			VariantID:           l.VariantID,
			ItemNameSnapshot:    l.MenuItem.Name,
			VariantNameSnapshot: variantName,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			TaxSlabSnapshot:     l.MenuItem.TaxSlab,
			TaxCodeSnapshot:     l.MenuItem.TaxCode,
			Notes:               l.Notes,
			LineTotal:           l.LineTotal,
			Modifiers:           modifiers,
		}
	}
	return out
}

// newReference returns a short human-readable identifier such as ORD-9F1C2A7B3E.
func newReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:10])
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Lines.Modifiers").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForBranch returns the branch's orders, oldest first. With no statuses
// given it returns the orders still in the kitchen.
func (s *OrderService) ListForBranch(ctx context.Context, branchID uint, statuses ...models.OrderStatus) ([]models.Order, error) {
	if len(statuses) == 0 {
		statuses = ActiveOrderStatuses
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Lines").
		Preload("Lines.Modifiers").
		Where("branch_id = ? AND status IN ?", branchID, statuses).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order along its kitchen lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}
