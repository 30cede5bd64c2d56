package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/furnix/furnix-api/internal/dto"
	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/repository"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidDistributor = errors.New("invalid distributor")
)

// OrderService orchestrates the order status workflow: it validates and
// persists status transitions, then hands the side-effect fan-out to the
// notification pipeline. Notification failures never surface here.
type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	events    events.Publisher
	log       *slog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, publisher events.Publisher, log *slog.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, userRepo: userRepo, events: publisher, log: log}
}

func (s *OrderService) Create(ctx context.Context, userID string, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := parseID(item.ProductID)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, model.OrderItem{
			ProductID:  productID,
			Title:      item.Title,
			VariantKey: item.VariantKey,
			Price:      item.Price.InexactFloat64(),
			Quantity:   item.Quantity,
		})
	}
	total := subtotal.Sub(req.Discount).Add(req.Tax).Add(req.Shipping)

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentMethodCOD
	}

	order := &model.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		UserID:        uid,
		Items:         items,
		Subtotal:      subtotal.InexactFloat64(),
		Discount:      req.Discount.InexactFloat64(),
		Tax:           req.Tax.InexactFloat64(),
		Shipping:      req.Shipping.InexactFloat64(),
		Total:         total.InexactFloat64(),
		Address:       req.Address,
		Status:        model.OrderStatusPending,
		PaymentMethod: paymentMethod,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, events.Event{
		Entity:  events.EntityOrder,
		ID:      order.ID.Hex(),
		Status:  string(order.Status),
		Created: true,
	})

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) List(ctx context.Context, status string) ([]dto.OrderResponse, error) {
	var st model.OrderStatus
	if status != "" {
		parsed, ok := model.ParseOrderStatus(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		st = parsed
	}

	orders, err := s.orderRepo.List(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

// UpdateStatus validates the target status against the order status domain
// before any write, persists it, and publishes a status event. Any valid
// status may be set from any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*dto.OrderResponse, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	s.publish(ctx, events.Event{
		Entity: events.EntityOrder,
		ID:     order.ID.Hex(),
		Status: string(order.Status),
	})

	resp := toOrderResponse(order)
	return &resp, nil
}

// AssignDistributor hands the order to a distributor and moves it to
// ASSIGNED. The distributor, not the customer, is notified.
func (s *OrderService) AssignDistributor(ctx context.Context, orderID, distributorID string) (*dto.OrderResponse, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	did, err := parseID(distributorID)
	if err != nil {
		return nil, err
	}

	distributor, err := s.userRepo.GetByID(ctx, did)
	if err != nil {
		return nil, fmt.Errorf("get distributor: %w", err)
	}
	if distributor == nil || distributor.Role != model.RoleDistributor {
		return nil, ErrInvalidDistributor
	}

	order, err := s.orderRepo.Assign(ctx, id, did)
	if err != nil {
		return nil, fmt.Errorf("assign order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	s.publish(ctx, events.Event{
		Entity:        events.EntityOrder,
		ID:            order.ID.Hex(),
		Status:        string(order.Status),
		DistributorID: did.Hex(),
	})

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) ListDistributors(ctx context.Context) ([]dto.UserResponse, error) {
	distributors, err := s.userRepo.ListByRole(ctx, model.RoleDistributor)
	if err != nil {
		return nil, fmt.Errorf("list distributors: %w", err)
	}
	resp := make([]dto.UserResponse, 0, len(distributors))
	for i := range distributors {
		resp = append(resp, toUserResponse(&distributors[i]))
	}
	return resp, nil
}

// publish hands the status change to the notification pipeline. A broken
// broker must never fail the persisted state change, so errors are logged
// and swallowed.
func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish status event", "entity", ev.Entity, "id", ev.ID, "error", err)
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:  item.ProductID.Hex(),
			Title:      item.Title,
			VariantKey: item.VariantKey,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}
	resp := dto.OrderResponse{
		ID:            order.ID.Hex(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Items:         items,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		Address:       order.Address,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if !order.UserID.IsZero() {
		resp.UserID = order.UserID.Hex()
	}
	if !order.DistributorID.IsZero() {
		resp.DistributorID = order.DistributorID.Hex()
	}
	return resp
}
