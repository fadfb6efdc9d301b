package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

// LineInput describes an item to add to a cart.
type LineInput struct {
	ItemID      uint
	VariantID   *uint
	ModifierIDs []uint
	Quantity    int
	Notes       string
}

// CartService owns cart lines and the derived cart totals. Every mutation
// recomputes the totals from all persisted lines in the same transaction.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreate returns the session's open cart, creating an empty one if needed.
func (s *CartService) GetOrCreate(ctx context.Context, sessionID uint) (*models.Cart, error) {
	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, sessionID)
		if err != nil {
			return err
		}
		cartID = cart.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadCart(s.db.WithContext(ctx), cartID)
}

// AddLine snapshots the current price of the item (or variant) and modifiers
// into a new line.
func (s *CartService) AddLine(ctx context.Context, sessionID uint, in LineInput) (*models.Cart, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, in.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ItemUnavailableError{Item: fmt.Sprintf("item #%d", in.ItemID)}
			}
			return err
		}
		if !item.IsAvailable {
			return &ItemUnavailableError{Item: item.Name}
		}

		unitPrice := item.BasePrice
		if in.VariantID != nil {
			var variant models.MenuItemVariant
			if err := tx.Where("id = ? AND menu_item_id = ?", *in.VariantID, item.ID).First(&variant).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ItemUnavailableError{Item: item.Name}
				}
				return err
			}
			if !variant.IsAvailable {
				return &ItemUnavailableError{Item: fmt.Sprintf("%s (%s)", item.Name, variant.Name)}
			}
			unitPrice = variant.Price
		}

		modifiers := make([]models.CartLineModifier, 0, len(in.ModifierIDs))
		deltas := make([]decimal.Decimal, 0, len(in.ModifierIDs))
		for _, modifierID := range in.ModifierIDs {
			var modifier models.MenuModifier
			if err := tx.Where("id = ? AND menu_item_id = ?", modifierID, item.ID).First(&modifier).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ItemUnavailableError{Item: fmt.Sprintf("modifier #%d", modifierID)}
				}
				return err
			}
			if !modifier.IsAvailable {
				return &ItemUnavailableError{Item: modifier.Name}
			}
			modifiers = append(modifiers, models.CartLineModifier{
				ModifierID:         modifier.ID,
				NameSnapshot:       modifier.Name,
				PriceDeltaSnapshot: modifier.PriceDelta,
			})
			deltas = append(deltas, modifier.PriceDelta)
		}

		cart, err := getOrCreateCart(tx, sessionID)
		if err != nil {
			return err
		}

		line := models.CartLine{
			CartID:     cart.ID,
			MenuItemID: item.ID,
			VariantID:  in.VariantID,
			Quantity:   in.Quantity,
			UnitPrice:  unitPrice,
			Notes:      strings.TrimSpace(in.Notes),
			Modifiers:  modifiers,
		}
		line.LineTotal = LineTotal(PricedLine{UnitPrice: unitPrice, ModifierDeltas: deltas, Quantity: in.Quantity})
		if err := tx.Create(&line).Error; err != nil {
			return err
		}

		cartID = cart.ID
		return recomputeCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return loadCart(s.db.WithContext(ctx), cartID)
}

// RemoveLine deletes a line from the session's open cart.
func (s *CartService) RemoveLine(ctx context.Context, sessionID, lineID uint) (*models.Cart, error) {
	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, line, err := findLine(tx, sessionID, lineID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_line_id = ?", line.ID).Delete(&models.CartLineModifier{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CartLine{}, line.ID).Error; err != nil {
			return err
		}
		cartID = cart.ID
		return recomputeCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return loadCart(s.db.WithContext(ctx), cartID)
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, lineID uint, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, sessionID, lineID)
	}

	var cartID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, line, err := findLine(tx, sessionID, lineID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.CartLine{}).Where("id = ?", line.ID).Update("quantity", quantity).Error; err != nil {
			return err
		}
		cartID = cart.ID
		return recomputeCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return loadCart(s.db.WithContext(ctx), cartID)
}

// View returns the open cart with its lines. A session without a cart gets an
// empty, unsaved cart.
func (s *CartService) View(ctx context.Context, sessionID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := findOpenCart(db, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{SessionID: sessionID, Status: models.CartOpen}, nil
	}
	if err != nil {
		return nil, err
	}
	return loadCart(db, cart.ID)
}

// FindLineByItemName finds the open-cart line whose item name matches name,
// preferring an exact match over a partial one.
func (s *CartService) FindLineByItemName(ctx context.Context, sessionID uint, name string) (*models.CartLine, error) {
	cart, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, fmt.Errorf("%w: empty item name", ErrLineNotFound)
	}

	var partial *models.CartLine
	for i := range cart.Lines {
		line := &cart.Lines[i]
		itemName := strings.ToLower(line.MenuItem.Name)
		if itemName == needle {
			return line, nil
		}
		if partial == nil && (strings.Contains(itemName, needle) || strings.Contains(needle, itemName)) {
			partial = line
		}
	}
	if partial != nil {
		return partial, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLineNotFound, name)
}

func findOpenCart(tx *gorm.DB, sessionID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("session_id = ? AND status = ?", sessionID, models.CartOpen).Order("id").First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func getOrCreateCart(tx *gorm.DB, sessionID uint) (*models.Cart, error) {
	cart, err := findOpenCart(tx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &models.Cart{SessionID: sessionID, Status: models.CartOpen}
	if err := tx.Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func findLine(tx *gorm.DB, sessionID, lineID uint) (*models.Cart, *models.CartLine, error) {
	cart, err := findOpenCart(tx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: #%d", ErrLineNotFound, lineID)
	}
	if err != nil {
		return nil, nil, err
	}

	var line models.CartLine
	if err := tx.Where("id = ? AND cart_id = ?", lineID, cart.ID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: #%d", ErrLineNotFound, lineID)
		}
		return nil, nil, err
	}
	return cart, &line, nil
}

// recomputeCart rewrites line totals and cart totals from the persisted lines.
// The tax slab is read from the live menu item.
func recomputeCart(tx *gorm.DB, cart *models.Cart) error {
	var lines []models.CartLine
	if err := tx.Preload("Modifiers").Preload("MenuItem").
		Where("cart_id = ?", cart.ID).
		Order("id").
		Find(&lines).Error; err != nil {
		return err
	}

	priced := make([]PricedLine, len(lines))
	for i, l := range lines {
		deltas := make([]decimal.Decimal, len(l.Modifiers))
		for j, m := range l.Modifiers {
			deltas[j] = m.PriceDeltaSnapshot
		}
		priced[i] = PricedLine{
			UnitPrice:      l.UnitPrice,
			ModifierDeltas: deltas,
			Quantity:       l.Quantity,
			TaxSlab:        l.MenuItem.TaxSlab,
		}
	}

	totals := ComputeTotals(priced, cart.ServiceCharge, cart.Discount)
	for i, l := range lines {
		if l.LineTotal.Equal(totals.LineTotals[i]) {
			continue
		}
		if err := tx.Model(&models.CartLine{}).Where("id = ?", l.ID).Update("line_total", totals.LineTotals[i]).Error; err != nil {
			return err
		}
	}

	return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"subtotal":       totals.Subtotal,
		"cgst_amount":    totals.CGST,
		"sgst_amount":    totals.SGST,
		"service_charge": totals.ServiceCharge,
		"discount":       totals.Discount,
		"round_off":      totals.RoundOff,
		"total":          totals.Total,
	}).Error
}

func loadCart(db *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_lines.id")
	}).
		Preload("Lines.MenuItem").
		Preload("Lines.Variant").
		Preload("Lines.Modifiers").
		First(&cart, cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
