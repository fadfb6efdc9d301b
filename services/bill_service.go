package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

// PaymentInput is a settlement recorded at the counter.
type PaymentInput struct {
	Method     models.PaymentMethod
	Amount     decimal.Decimal
	Reference  string
	ReceivedBy *uint
}

// BillService consolidates a session's orders into one bill and settles it.
type BillService struct {
	db  *gorm.DB
	now Clock
}

func NewBillService(db *gorm.DB, now Clock) *BillService {
	return &BillService{db: db, now: orNow(now)}
}

// GenerateForSession sums every non-cancelled order of the session. An unpaid
// bill for the session is reused and its totals refreshed.
func (s *BillService) GenerateForSession(ctx context.Context, sessionID uint) (*models.Bill, error) {
	var bill models.Bill
	var orders []models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSession
			}
			return err
		}

		if err := tx.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
			Where("session_id = ? AND status <> ?", sessionID, models.OrderCancelled).
			Order("id").
			Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return ErrNothingToBill
		}

		var sum models.Bill
		for _, o := range orders {
			sum.Subtotal = sum.Subtotal.Add(o.Subtotal)
			sum.CGST = sum.CGST.Add(o.CGST)
			sum.SGST = sum.SGST.Add(o.SGST)
			sum.ServiceCharge = sum.ServiceCharge.Add(o.ServiceCharge)
			sum.Discount = sum.Discount.Add(o.Discount)
			sum.RoundOff = sum.RoundOff.Add(o.RoundOff)
			sum.Total = sum.Total.Add(o.Total)
		}

		err := tx.Where("session_id = ? AND status = ?", sessionID, models.BillUnpaid).First(&bill).Error
		switch {
		case err == nil:
			bill.OrderCount = len(orders)
			bill.Subtotal, bill.CGST, bill.SGST = sum.Subtotal, sum.CGST, sum.SGST
			bill.ServiceCharge, bill.Discount = sum.ServiceCharge, sum.Discount
			bill.RoundOff, bill.Total = sum.RoundOff, sum.Total
			return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(map[string]interface{}{
				"order_count":    bill.OrderCount,
				"subtotal":       bill.Subtotal,
				"cgst_amount":    bill.CGST,
				"sgst_amount":    bill.SGST,
				"service_charge": bill.ServiceCharge,
				"discount":       bill.Discount,
				"round_off":      bill.RoundOff,
				"total":          bill.Total,
			}).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		bill = models.Bill{
			BranchID:      session.BranchID,
			TableID:       session.TableID,
			SessionID:     session.ID,
			BillNumber:    newReference("BILL"),
			Status:        models.BillUnpaid,
			OrderCount:    len(orders),
			Subtotal:      sum.Subtotal,
			CGST:          sum.CGST,
			SGST:          sum.SGST,
			ServiceCharge: sum.ServiceCharge,
			Discount:      sum.Discount,
			RoundOff:      sum.RoundOff,
			Total:         sum.Total,
		}
		return tx.Create(&bill).Error
	})
	if err != nil {
		return nil, err
	}

	bill.Orders = orders
	return &bill, nil
}

func (s *BillService) Get(ctx context.Context, billID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.WithContext(ctx).Preload("Payments").First(&bill, billID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// Pay records a payment, marks the bill paid and closes the table session.
func (s *BillService) Pay(ctx context.Context, billID uint, in PaymentInput) (*models.Bill, error) {
	if !in.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, in.Method)
	}

	now := s.now()
	var bill models.Bill

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBillNotFound
			}
			return err
		}
		if bill.Status == models.BillPaid {
			return ErrBillAlreadyPaid
		}
		if in.Amount.LessThan(bill.Total) {
			return fmt.Errorf("%w: amount %s is less than bill total %s", ErrInvalidPayment, in.Amount.StringFixed(2), bill.Total.StringFixed(2))
		}

		payment := models.Payment{
			BillID:     bill.ID,
			Method:     in.Method,
			Amount:     in.Amount,
			Reference:  in.Reference,
			ReceivedBy: in.ReceivedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(map[string]interface{}{
			"status":    models.BillPaid,
			"closed_at": now,
		}).Error; err != nil {
			return err
		}

		// Keranjang yang belum dipesan ikut ditutup bersama sesi
		if err := tx.Model(&models.Cart{}).
			Where("session_id = ? AND status = ?", bill.SessionID, models.CartOpen).
			Update("status", models.CartAbandoned).Error; err != nil {
			return err
		}
		return closeSession(tx, bill.SessionID, now)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, billID)
}
