package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/furnix/furnix-api/internal/dto"
	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/repository"
)

var ErrCustomOrderNotFound = errors.New("custom order not found")

// AttachmentStore persists and removes custom-order attachment files.
type AttachmentStore interface {
	Save(name string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

// Attachment is one uploaded file accompanying a custom-order submission.
type Attachment struct {
	Name    string
	Content io.Reader
}

type CustomOrderService struct {
	repo   repository.CustomOrderRepository
	files  AttachmentStore
	events events.Publisher
	log    *slog.Logger
}

func NewCustomOrderService(repo repository.CustomOrderRepository, files AttachmentStore, publisher events.Publisher, log *slog.Logger) *CustomOrderService {
	return &CustomOrderService{repo: repo, files: files, events: publisher, log: log}
}

// Create stores the uploaded attachments and the intake record. The optional
// customerID links the submission to a registered customer.
func (s *CustomOrderService) Create(ctx context.Context, req dto.CreateCustomOrderRequest, customerID string, attachments []Attachment) (*dto.CustomOrderResponse, error) {
	paths := make([]string, 0, len(attachments))
	for _, a := range attachments {
		path, err := s.files.Save(a.Name, a.Content)
		if err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		paths = append(paths, path)
	}

	order := &model.CustomOrder{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		RoomMeasurements: req.RoomMeasurements,
		Details:          req.Details,
		Attachments:      paths,
		Status:           model.CustomOrderStatusSubmitted,
	}
	if customerID != "" {
		cid, err := parseID(customerID)
		if err != nil {
			return nil, err
		}
		order.CustomerID = cid
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create custom order: %w", err)
	}

	s.publish(ctx, events.Event{
		Entity:  events.EntityCustomOrder,
		ID:      order.ID.Hex(),
		Status:  string(order.Status),
		Created: true,
	})

	resp := toCustomOrderResponse(order)
	return &resp, nil
}

// List returns custom orders matching the filter. A non-empty restrictEmail
// scopes the listing to that requester regardless of other filters.
func (s *CustomOrderService) List(ctx context.Context, req dto.ListCustomOrdersRequest, restrictEmail string) (*dto.CustomOrderListResponse, error) {
	orders, total, err := s.repo.List(ctx, repository.CustomOrderFilter{
		Email:    restrictEmail,
		Status:   req.Status,
		Query:    req.Query,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list custom orders: %w", err)
	}

	items := make([]dto.CustomOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toCustomOrderResponse(&orders[i]))
	}
	return &dto.CustomOrderListResponse{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

func (s *CustomOrderService) ListByEmail(ctx context.Context, email string) ([]dto.CustomOrderResponse, error) {
	orders, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list custom orders: %w", err)
	}
	items := make([]dto.CustomOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toCustomOrderResponse(&orders[i]))
	}
	return items, nil
}

func (s *CustomOrderService) Get(ctx context.Context, id string) (*dto.CustomOrderResponse, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get custom order: %w", err)
	}
	if order == nil {
		return nil, ErrCustomOrderNotFound
	}
	resp := toCustomOrderResponse(order)
	return &resp, nil
}

// UpdateStatus validates the target status against the custom-order status
// domain before any write, persists it with the optional admin notes, and
// publishes a status event.
func (s *CustomOrderService) UpdateStatus(ctx context.Context, id, status, adminNotes string) (*dto.CustomOrderResponse, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	st, ok := model.ParseCustomOrderStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.UpdateStatus(ctx, oid, st, adminNotes)
	if err != nil {
		return nil, fmt.Errorf("update custom order status: %w", err)
	}
	if order == nil {
		return nil, ErrCustomOrderNotFound
	}

	s.publish(ctx, events.Event{
		Entity: events.EntityCustomOrder,
		ID:     order.ID.Hex(),
		Status: string(order.Status),
	})

	resp := toCustomOrderResponse(order)
	return &resp, nil
}

// Delete removes the record and its attachment files. File cleanup is
// best-effort; a missing file never fails the delete.
func (s *CustomOrderService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	order, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return fmt.Errorf("get custom order: %w", err)
	}
	if order == nil {
		return ErrCustomOrderNotFound
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete custom order: %w", err)
	}

	for _, path := range order.Attachments {
		if err := s.files.Remove(path); err != nil {
			s.log.Warn("remove attachment", "path", path, "error", err)
		}
	}

	s.publish(ctx, events.Event{
		Entity:  events.EntityCustomOrder,
		ID:      order.ID.Hex(),
		Deleted: true,
	})
	return nil
}

func (s *CustomOrderService) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish status event", "entity", ev.Entity, "id", ev.ID, "error", err)
	}
}

func toCustomOrderResponse(order *model.CustomOrder) dto.CustomOrderResponse {
	resp := dto.CustomOrderResponse{
		ID:               order.ID.Hex(),
		Name:             order.Name,
		Email:            order.Email,
		Phone:            order.Phone,
		RoomMeasurements: order.RoomMeasurements,
		Details:          order.Details,
		Attachments:      order.Attachments,
		Status:           string(order.Status),
		AdminNotes:       order.AdminNotes,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if !order.CustomerID.IsZero() {
		resp.CustomerID = order.CustomerID.Hex()
	}
	return resp
}
