package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tillfolk/pos-api/internal/clock"
	"github.com/tillfolk/pos-api/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, storeID string, id int64) (domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order domain.Order) error
	DeleteOrder(ctx context.Context, storeID string, id int64) error
	NextOrderNumber(ctx context.Context, storeID string) (string, error)
	AppendTransactions(ctx context.Context, orderID int64, txs []domain.Transaction) error
}

// ShiftReader is the read-only view of shifts the order flow needs.
type ShiftReader interface {
	ActiveShift(ctx context.Context, storeID string) (*domain.RegisterShift, error)
}

type OrderService struct {
	orders   OrderRepository
	shifts   ShiftReader
	stores   StoreConfigProvider
	drafts   DraftStore
	notifier Notifier
	audit    ActivityLogger
	clock    clock.Clock
	log      logrus.FieldLogger
}

func NewOrderService(orders OrderRepository, shifts ShiftReader, stores StoreConfigProvider, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		orders:   orders,
		shifts:   shifts,
		stores:   stores,
		notifier: NoopNotifier{},
		clock:    clk,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithDraftStore enables draft snapshots keyed by terminal.
func WithDraftStore(store DraftStore) OrderServiceOption {
	return func(s *OrderService) { s.drafts = store }
}

// WithNotifier publishes order changes after successful persistence.
func WithNotifier(n Notifier) OrderServiceOption {
	return func(s *OrderService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithActivityLog attaches the audit sink.
func WithActivityLog(a ActivityLogger) OrderServiceOption {
	return func(s *OrderService) { s.audit = a }
}

// WithLogger overrides the default process logger.
func WithLogger(log logrus.FieldLogger) OrderServiceOption {
	return func(s *OrderService) {
		if log != nil {
			s.log = log
		}
	}
}

type DraftInput struct {
	Draft       domain.Draft
	TerminalID  string
	PerformedBy string
}

// Hold persists the draft as an on-hold order without settling it.
func (s *OrderService) Hold(ctx context.Context, in DraftInput) (domain.Order, error) {
	return s.persistDraft(ctx, in, domain.OrderStatusOnHold)
}

// Submit persists the draft as a pending order ("send to kitchen",
// pay later).
func (s *OrderService) Submit(ctx context.Context, in DraftInput) (domain.Order, error) {
	return s.persistDraft(ctx, in, domain.OrderStatusPending)
}

func (s *OrderService) persistDraft(ctx context.Context, in DraftInput, status domain.OrderStatus) (domain.Order, error) {
	order, _, err := s.prepareOrder(ctx, in)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = status

	if err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if in.Draft.ID != 0 {
			// Updating a persisted order: a settled or final order is
			// immutable, and the original audit identity is kept.
			existing, err := s.orders.GetOrder(txCtx, in.Draft.StoreID, in.Draft.ID)
			if err != nil {
				return err
			}
			if existing.Status == domain.OrderStatusCompleted || existing.Status.Final() {
				return domain.ErrOrderFinal
			}
			order.OrderNumber = existing.OrderNumber
			order.CreatedBy = existing.CreatedBy
			order.CreatedAt = existing.CreatedAt
		}
		return s.writeOrder(txCtx, &order, in.Draft.ID)
	}); err != nil {
		return domain.Order{}, err
	}

	s.afterOrderWrite(ctx, order, in.TerminalID, in.PerformedBy, "order_"+string(status))
	return order, nil
}

type CheckoutInput struct {
	DraftInput
	Plan PaymentPlan
}

// Checkout settles the draft against the payment plan and persists the
// completed order. All validation happens before any write, so a failure
// leaves the draft untouched and retryable.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (domain.Order, error) {
	order, shift, err := s.prepareOrder(ctx, in.DraftInput)
	if err != nil {
		return domain.Order{}, err
	}

	txs, err := buildTransactions(in.Plan, order.Total, in.PerformedBy, s.clock.Now())
	if err != nil {
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatusCompleted
	order.ShiftID = shift.ID

	if err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if in.Draft.ID != 0 {
			// Settling an already persisted order: freeze its kitchen
			// progress and keep the original audit identity.
			existing, err := s.orders.GetOrder(txCtx, in.Draft.StoreID, in.Draft.ID)
			if err != nil {
				return err
			}
			if existing.Status == domain.OrderStatusCompleted || existing.Status.Final() {
				return domain.ErrOrderFinal
			}
			order.KitchenStatus = existing.KitchenStatus
			order.OrderNumber = existing.OrderNumber
			order.CreatedBy = existing.CreatedBy
			order.CreatedAt = existing.CreatedAt
		}
		if err := s.writeOrder(txCtx, &order, in.Draft.ID); err != nil {
			return err
		}
		for i := range txs {
			txs[i].OrderID = order.ID
		}
		return s.orders.AppendTransactions(txCtx, order.ID, txs)
	}); err != nil {
		return domain.Order{}, err
	}
	order.Transactions = txs

	s.afterOrderWrite(ctx, order, in.TerminalID, in.PerformedBy, "order_settled")
	return order, nil
}

type ResumeInput struct {
	StoreID     string
	OrderID     int64
	TerminalID  string
	PerformedBy string
}

// Resume edits a held or active order by replacement: the persisted order
// is deleted and a draft seeded from its snapshot is returned, carrying the
// order number and original audit identity forward.
func (s *OrderService) Resume(ctx context.Context, in ResumeInput) (domain.Draft, error) {
	order, err := s.orders.GetOrder(ctx, in.StoreID, in.OrderID)
	if err != nil {
		return domain.Draft{}, err
	}
	if order.Status == domain.OrderStatusCompleted || order.Status.Final() {
		return domain.Draft{}, domain.ErrOrderFinal
	}

	if err := s.orders.DeleteOrder(ctx, in.StoreID, in.OrderID); err != nil {
		return domain.Draft{}, err
	}

	lines := make([]domain.CartLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, domain.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	draft := domain.Draft{
		StoreID:         order.StoreID,
		OrderNumber:     order.OrderNumber,
		Lines:           lines,
		DiscountPercent: order.DiscountPercent,
		OrderType:       order.OrderType,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		TableNumber:     order.TableNumber,
		Note:            order.Note,
		CreatedBy:       order.CreatedBy,
		CreatedAt:       order.CreatedAt,
	}

	if s.drafts != nil && in.TerminalID != "" {
		if err := s.drafts.Save(ctx, in.TerminalID, draft); err != nil {
			s.log.WithError(err).Warn("save resumed draft")
		}
	}
	s.logActivity(ctx, in.StoreID, "order_resumed", order.OrderNumber, in.PerformedBy, "")
	return draft, nil
}

type TransitionInput struct {
	StoreID     string
	OrderID     int64
	PerformedBy string
}

// Activate moves an on-hold order back into the pending flow.
func (s *OrderService) Activate(ctx context.Context, in TransitionInput) (domain.Order, error) {
	return s.transition(ctx, in, domain.OrderStatusPending, "order_activated")
}

// HoldOrder parks an active order without losing its items or totals.
func (s *OrderService) HoldOrder(ctx context.Context, in TransitionInput) (domain.Order, error) {
	return s.transition(ctx, in, domain.OrderStatusOnHold, "order_held")
}

// Cancel terminates a pre-completed order.
func (s *OrderService) Cancel(ctx context.Context, in TransitionInput) (domain.Order, error) {
	return s.transition(ctx, in, domain.OrderStatusCancelled, "order_cancelled")
}

func (s *OrderService) transition(ctx context.Context, in TransitionInput, next domain.OrderStatus, action string) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, in.StoreID, in.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status.Final() {
		return domain.Order{}, domain.ErrOrderFinal
	}
	if !order.Status.CanTransitionTo(next) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	order.Status = next
	order.UpdatedAt = s.clock.Now()
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.afterOrderWrite(ctx, order, "", in.PerformedBy, action)
	return order, nil
}

type ReturnInput struct {
	StoreID     string
	OrderID     int64
	Method      domain.PaymentMethod
	Reference   string
	PerformedBy string
}

// Return refunds a completed order in full and marks it returned. The
// refund is appended; the frozen items and total are never rewritten.
func (s *OrderService) Return(ctx context.Context, in ReturnInput) (domain.Order, error) {
	if !in.Method.Valid() {
		return domain.Order{}, domain.ErrInvalidInstrument
	}

	order, err := s.orders.GetOrder(ctx, in.StoreID, in.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusReturned) {
		if order.Status.Final() {
			return domain.Order{}, domain.ErrOrderFinal
		}
		return domain.Order{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	refund := domain.Transaction{
		ID:              newTransactionID(),
		OrderID:         order.ID,
		Type:            domain.TransactionRefund,
		Method:          in.Method,
		Amount:          order.PaidAmount(),
		ReferenceNumber: in.Reference,
		PerformedBy:     in.PerformedBy,
		CreatedAt:       now,
	}

	order.Status = domain.OrderStatusReturned
	order.UpdatedAt = now

	if err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateOrder(txCtx, order); err != nil {
			return err
		}
		return s.orders.AppendTransactions(txCtx, order.ID, []domain.Transaction{refund})
	}); err != nil {
		return domain.Order{}, err
	}
	order.Transactions = append(order.Transactions, refund)

	s.afterOrderWrite(ctx, order, "", in.PerformedBy, "order_returned")
	return order, nil
}

type KitchenInput struct {
	StoreID     string
	OrderID     int64
	Status      domain.KitchenStatus
	PerformedBy string
}

// SetKitchenStatus advances an active order through the kitchen flow and
// mirrors preparing/ready onto the order status.
func (s *OrderService) SetKitchenStatus(ctx context.Context, in KitchenInput) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, in.StoreID, in.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.Active() {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	if !order.KitchenStatus.Next(in.Status) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	order.KitchenStatus = in.Status
	switch in.Status {
	case domain.KitchenStatusPreparing:
		if order.Status.CanTransitionTo(domain.OrderStatusPreparing) {
			order.Status = domain.OrderStatusPreparing
		}
	case domain.KitchenStatusReady:
		if order.Status.CanTransitionTo(domain.OrderStatusReady) {
			order.Status = domain.OrderStatusReady
		}
	}
	order.UpdatedAt = s.clock.Now()

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	s.afterOrderWrite(ctx, order, "", in.PerformedBy, "kitchen_"+string(in.Status))
	return order, nil
}

// prepareOrder runs every submission-time validation and prices the cart.
// It returns the assembled (unpersisted) order and the open shift.
func (s *OrderService) prepareOrder(ctx context.Context, in DraftInput) (domain.Order, *domain.RegisterShift, error) {
	draft := in.Draft
	draft.PruneLines()
	if len(draft.Lines) == 0 {
		return domain.Order{}, nil, domain.ErrEmptyCart
	}
	if !draft.OrderType.Valid() {
		return domain.Order{}, nil, domain.ErrInvalidOrderType
	}
	switch draft.OrderType {
	case domain.OrderTypeDineIn:
		if draft.TableNumber == "" {
			return domain.Order{}, nil, &domain.MissingFieldError{Field: "table_number"}
		}
	case domain.OrderTypeTakeaway, domain.OrderTypeDelivery:
		if draft.CustomerID == "" && draft.CustomerName == "" {
			return domain.Order{}, nil, &domain.MissingFieldError{Field: "customer"}
		}
	}

	shift, err := s.shifts.ActiveShift(ctx, draft.StoreID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if shift == nil {
		return domain.Order{}, nil, domain.ErrRegisterClosed
	}

	cfg, err := s.stores.StoreConfig(ctx, draft.StoreID)
	if err != nil {
		return domain.Order{}, nil, err
	}

	totals := ComputeTotals(draft.Lines, draft.DiscountPercent, draft.OrderType, cfg)

	items := make([]domain.OrderLine, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		items = append(items, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	now := s.clock.Now()
	createdBy := draft.CreatedBy
	if createdBy == "" {
		createdBy = in.PerformedBy
	}
	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	kitchen := domain.KitchenStatusServed
	if cfg.KOTEnabled {
		kitchen = domain.KitchenStatusPending
	}

	return domain.Order{
		ID:              draft.ID,
		StoreID:         draft.StoreID,
		OrderNumber:     draft.OrderNumber,
		KitchenStatus:   kitchen,
		OrderType:       draft.OrderType,
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		ServiceCharge:   totals.ServiceCharge,
		Tax:             totals.Tax,
		Total:           totals.Total,
		CustomerID:      draft.CustomerID,
		CustomerName:    draft.CustomerName,
		TableNumber:     draft.TableNumber,
		Note:            draft.Note,
		CreatedBy:       createdBy,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}, shift, nil
}

// writeOrder decides insert-vs-update by identity. New drafts without a
// carried-forward number get the next sequential number for the store.
func (s *OrderService) writeOrder(ctx context.Context, order *domain.Order, draftID int64) error {
	if draftID != 0 {
		order.ID = draftID
		return s.orders.UpdateOrder(ctx, *order)
	}
	if order.OrderNumber == "" {
		number, err := s.orders.NextOrderNumber(ctx, order.StoreID)
		if err != nil {
			return err
		}
		order.OrderNumber = number
	}
	return s.orders.CreateOrder(ctx, order)
}

func (s *OrderService) afterOrderWrite(ctx context.Context, order domain.Order, terminalID, actor, action string) {
	s.logActivity(ctx, order.StoreID, action, order.OrderNumber, actor,
		fmt.Sprintf("total=%.2f", order.Total))
	if err := s.notifier.OrderChanged(ctx, order); err != nil {
		s.log.WithError(err).WithField("order", order.OrderNumber).Warn("notify order change")
	}
	if s.drafts != nil && terminalID != "" {
		if err := s.drafts.Clear(ctx, terminalID); err != nil {
			s.log.WithError(err).WithField("terminal", terminalID).Warn("clear draft")
		}
	}
}

func (s *OrderService) logActivity(ctx context.Context, storeID, action, entityID, actor, details string) {
	if s.audit == nil {
		return
	}
	entry := domain.ActivityEntry{
		StoreID:    storeID,
		Action:     action,
		EntityType: "order",
		EntityID:   entityID,
		Actor:      actor,
		Details:    details,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", action).Warn("activity log")
	}
}
