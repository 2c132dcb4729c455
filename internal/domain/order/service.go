package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/pourcart/internal/domain/credit"
	"github.com/xenking/pourcart/internal/domain/customer"
	"github.com/xenking/pourcart/internal/domain/payment"
	"github.com/xenking/pourcart/internal/domain/pricing"
	"github.com/xenking/pourcart/internal/domain/shipment"
)

// ShippingFee is charged on every order on top of the line subtotal. It is
// folded into the payment amount, never into the stored order total.
var ShippingFee = decimal.NewFromInt(2)

// Currency used for all gateway charges.
const Currency = "usd"

// Sentinel errors for settlement and cancellation.
var (
	ErrEmptyItems     = errors.New("items required")
	ErrNotFound       = errors.New("order not found")
	ErrNotCancellable = errors.New("order is not pending")
)

// InvalidQuantityError indicates a cart line has a non-positive quantity.
type InvalidQuantityError struct {
	FoodID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for food item %s", e.FoodID)
}

// Pricer prices a cart. Implemented by pricing.Engine.
type Pricer interface {
	Price(ctx context.Context, items []pricing.CartItem) (*pricing.Quote, error)
}

// CreditLedger is the store credit surface settlement needs. Implemented
// by credit.Ledger. Both methods must run inside the caller's transaction.
type CreditLedger interface {
	Apply(ctx context.Context, customerID string, payable decimal.Decimal) (applied, remaining decimal.Decimal, err error)
	Issue(ctx context.Context, customerID string, amount decimal.Decimal) (*credit.StoreCredit, error)
}

// TxRunner executes fn inside a single database transaction. Repository
// writes made with the ctx passed to fn join that transaction; any error
// from fn rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier schedules shipment notification emails. Best effort: failures
// are logged by the caller and never affect settlement.
type Notifier interface {
	ScheduleShipmentNotifications(ctx context.Context, email, trackingNumber string) error
}

// SettleRequest holds the input for settling a cart into an order.
type SettleRequest struct {
	CustomerID   string
	Items        []pricing.CartItem
	PaymentToken string
}

// SettleResult holds the persisted outcome of a settlement.
type SettleResult struct {
	Order         *Order
	Shipment      *shipment.Shipment
	Payment       *payment.Payment
	CreditApplied decimal.Decimal
}

// Service orchestrates order settlement and cancellation.
type Service struct {
	customers customer.Repository
	pricer    Pricer
	ledger    CreditLedger
	gateway   payment.Gateway
	orders    Repository
	payments  payment.Repository
	shipments shipment.Repository
	tx        TxRunner
	notifier  Notifier
	lg        *zap.Logger
	now       func() time.Time
}

// NewService creates a settlement Service with the required collaborators.
func NewService(
	customers customer.Repository,
	pricer Pricer,
	ledger CreditLedger,
	gateway payment.Gateway,
	orders Repository,
	payments payment.Repository,
	shipments shipment.Repository,
	tx TxRunner,
	notifier Notifier,
	lg *zap.Logger,
) *Service {
	return &Service{
		customers: customers,
		pricer:    pricer,
		ledger:    ledger,
		gateway:   gateway,
		orders:    orders,
		payments:  payments,
		shipments: shipments,
		tx:        tx,
		notifier:  notifier,
		lg:        lg,
		now:       time.Now,
	}
}

// Settle turns a cart into a persisted order. The ledger decrement, order,
// payment, and shipment writes happen in one transaction: a charge failure
// or any persistence error rolls the whole settlement back, including the
// credit decrement. Notification scheduling runs after commit and is fire
// and forget.
func (s *Service) Settle(ctx context.Context, req SettleRequest) (*SettleResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{FoodID: item.FoodID}
		}
	}

	cust, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// No writes have happened yet; pricing failures abort cleanly.
	quote, err := s.pricer.Price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	payable := quote.Subtotal.Add(ShippingFee)
	result := &SettleResult{}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		applied, remaining, err := s.ledger.Apply(ctx, req.CustomerID, payable)
		if err != nil {
			return errors.Wrap(err, "apply store credit")
		}
		result.CreditApplied = applied

		lines := make([]OrderLine, len(quote.Lines))
		for i, l := range quote.Lines {
			lines[i] = OrderLine{FoodID: l.FoodID, Quantity: l.Quantity, Price: l.Price}
		}

		o := &Order{
			ID:              uuid.New().String(),
			CustomerID:      cust.ID,
			Lines:           lines,
			TotalPrice:      quote.Subtotal,
			Status:          StatusPending,
			DeliveryAddress: cust.DeliveryAddress,
			ContactPhone:    cust.PhoneNumber,
			Email:           cust.Email,
			CreatedAt:       s.now(),
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		result.Order = o

		// Without a payment token the order stays pending and unpaid.
		if req.PaymentToken != "" {
			charge, err := s.gateway.Charge(ctx, req.PaymentToken, remaining, Currency)
			if err != nil {
				return errors.Wrap(err, "charge payment")
			}

			p := &payment.Payment{
				ID:            uuid.New().String(),
				OrderID:       o.ID,
				CustomerID:    cust.ID,
				TransactionID: charge.TransactionID,
				Amount:        remaining,
				Status:        charge.Status,
				CreatedAt:     s.now(),
			}
			if err := s.payments.Create(ctx, p); err != nil {
				return errors.Wrap(err, "create payment")
			}
			result.Payment = p
		}

		sh := &shipment.Shipment{
			ID:                uuid.New().String(),
			OrderID:           o.ID,
			Carrier:           shipment.DefaultCarrier,
			TrackingNumber:    shipment.TrackingNumber(cust.ID, o.ID),
			EstimatedDelivery: s.now().Add(shipment.DeliveryEstimate),
		}
		if err := s.shipments.Create(ctx, sh); err != nil {
			return errors.Wrap(err, "create shipment")
		}
		result.Shipment = sh

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ScheduleShipmentNotifications(ctx, cust.Email, result.Shipment.TrackingNumber); err != nil {
		s.lg.Warn("schedule shipment notifications failed",
			zap.String("order_id", result.Order.ID),
			zap.Error(err),
		)
	}

	return result, nil
}

// Cancel transitions a pending order to cancelled and converts its total
// price into store credit. The status flip and the credit issue are one
// transaction, and the pending precondition is re-checked inside it via
// the conditional update, so concurrent cancels issue credit at most once.
// The amount credited is the order total, not the amount actually charged.
func (s *Service) Cancel(ctx context.Context, orderID string) (*credit.StoreCredit, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, o.CustomerID); err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	var issued *credit.StoreCredit
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		cancelled, err := s.orders.MarkCancelled(ctx, o.ID)
		if err != nil {
			return errors.Wrap(err, "mark order cancelled")
		}
		if !cancelled {
			return ErrNotCancellable
		}

		issued, err = s.ledger.Issue(ctx, o.CustomerID, o.TotalPrice)
		if err != nil {
			return errors.Wrap(err, "issue store credit")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return issued, nil
}
