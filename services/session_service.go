package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

// SessionInactivityTimeout closes a session lazily on the next lookup.
const SessionInactivityTimeout = 2 * time.Hour

// PairingPayload is the content of a table QR code sent by the customer.
type PairingPayload struct {
	Branch string
	Table  string
	Token  string
}

// ParsePairingPayload reads a pairing message: the marker line followed by
// branch=, table= and token= lines. ok is false when the marker is absent.
func ParsePairingPayload(text string) (PairingPayload, bool) {
	var p PairingPayload
	if !intent.IsPairing(text) {
		return p, false
	}
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "branch":
			p.Branch = value
		case "table":
			p.Table = value
		case "token":
			p.Token = value
		}
	}
	return p, true
}

// SessionService binds WhatsApp users to tables.
type SessionService struct {
	db  *gorm.DB
	now Clock
}

func NewSessionService(db *gorm.DB, now Clock) *SessionService {
	return &SessionService{db: db, now: orNow(now)}
}

// ResolveTenant maps the receiving WhatsApp phone-number id to its restaurant.
func (s *SessionService) ResolveTenant(ctx context.Context, phoneNumberID string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Where("wa_phone_number_id = ? AND is_active = ?", phoneNumberID, true).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownTenant
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Restaurant loads an active restaurant by id.
func (s *SessionService) Restaurant(ctx context.Context, restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", restaurantID, true).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownTenant
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Pair validates the QR token and opens a new session for the customer at that table.
// Any other active session on the table is closed in the same transaction.
func (s *SessionService) Pair(ctx context.Context, restaurantID uint, waUserID string, payload PairingPayload) (*models.Session, error) {
	if strings.TrimSpace(payload.Token) == "" {
		return nil, ErrInvalidToken
	}

	now := s.now()
	var session models.Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qr models.TableQRToken
		if err := tx.Where("token = ?", payload.Token).First(&qr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if !qr.ValidAt(now) {
			return ErrInvalidToken
		}

		var table models.Table
		if err := tx.Where("id = ? AND is_active = ?", qr.TableID, true).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		var branch models.Branch
		if err := tx.First(&branch, table.BranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		// Token milik restaurant lain atau payload tidak cocok dengan meja
		if branch.RestaurantID != restaurantID {
			return ErrInvalidToken
		}
		if payload.Branch != "" && payload.Branch != strconv.FormatUint(uint64(branch.ID), 10) {
			return ErrInvalidToken
		}
		if payload.Table != "" && payload.Table != table.TableNumber {
			return ErrInvalidToken
		}

		var customer models.Customer
		if err := tx.Where(models.Customer{RestaurantID: restaurantID, WAUserID: waUserID}).
			Attrs(models.Customer{PreferredLanguage: "en"}).
			FirstOrCreate(&customer).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Session{}).
			Where("table_id = ? AND status = ?", table.ID, models.SessionActive).
			Updates(map[string]interface{}{"status": models.SessionClosed, "closed_at": now}).Error; err != nil {
			return err
		}

		session = models.Session{
			RestaurantID:   restaurantID,
			BranchID:       branch.ID,
			TableID:        table.ID,
			CustomerID:     customer.ID,
			Status:         models.SessionActive,
			StartedAt:      now,
			LastActivityAt: now,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		session.Table = table
		session.Branch = branch
		session.Customer = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Lookup returns the customer's newest active session and refreshes its activity time.
// A session idle for longer than SessionInactivityTimeout is closed and ErrNoSession returned.
func (s *SessionService) Lookup(ctx context.Context, restaurantID uint, waUserID string) (*models.Session, error) {
	db := s.db.WithContext(ctx)

	var customer models.Customer
	if err := db.Where("restaurant_id = ? AND wa_user_id = ?", restaurantID, waUserID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var session models.Session
	err := db.Preload("Table").Preload("Branch").
		Where("customer_id = ? AND status = ?", customer.ID, models.SessionActive).
		Order("started_at DESC, id DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Sub(session.LastActivityAt) > SessionInactivityTimeout {
		if err := closeSession(db, session.ID, now); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}

	if err := db.Model(&models.Session{}).Where("id = ?", session.ID).Update("last_activity_at", now).Error; err != nil {
		return nil, err
	}
	session.LastActivityAt = now
	session.Customer = customer
	return &session, nil
}

// Get loads a session by id whatever its status.
func (s *SessionService) Get(ctx context.Context, sessionID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Preload("Table").First(&session, sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Close ends a session explicitly, e.g. once its bill is paid.
func (s *SessionService) Close(ctx context.Context, sessionID uint) error {
	return closeSession(s.db.WithContext(ctx), sessionID, s.now())
}

// UpdateLanguage stores the customer's preferred reply language.
func (s *SessionService) UpdateLanguage(ctx context.Context, customerID uint, lang string) error {
	return s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("preferred_language", lang).Error
}

func closeSession(db *gorm.DB, sessionID uint, now time.Time) error {
	return db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionActive).
		Updates(map[string]interface{}{"status": models.SessionClosed, "closed_at": now}).Error
}
