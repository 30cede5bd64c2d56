package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/notify"
	"github.com/furnix/furnix-api/internal/realtime"
	"github.com/furnix/furnix-api/internal/repository"
)

const idempotencyTTL = 24 * time.Hour

// NotificationWorker consumes status events and fans each one out through
// the dispatcher. Notifications are fire-once: every delivery is acked
// whether or not its channels succeeded, and a Redis key suppresses repeat
// fan-out for the same (entity, id, status).
type NotificationWorker struct {
	channel         *amqp.Channel
	orderRepo       repository.OrderRepository
	customOrderRepo repository.CustomOrderRepository
	userRepo        repository.UserRepository
	redisClient     *redis.Client
	dispatcher      *notify.Dispatcher
	adminEmail      string
	log             *slog.Logger
	done            chan struct{}
}

func NewNotificationWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	customOrderRepo repository.CustomOrderRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	dispatcher *notify.Dispatcher,
	adminEmail string,
	log *slog.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		channel:         ch,
		orderRepo:       orderRepo,
		customOrderRepo: customOrderRepo,
		userRepo:        userRepo,
		redisClient:     redisClient,
		dispatcher:      dispatcher,
		adminEmail:      adminEmail,
		log:             log,
		done:            make(chan struct{}),
	}
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(events.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notification worker started")
	return nil
}

func (w *NotificationWorker) Stop() { close(w.done) }

func (w *NotificationWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var ev events.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		w.log.Error("unmarshal status event", "error", err)
		_ = msg.Ack(false)
		return
	}
	w.Process(ctx, ev)
	_ = msg.Ack(false)
}

// Process fans out one status event. It never returns an error: channel
// failures are recorded by the dispatcher, and anything else is logged.
func (w *NotificationWorker) Process(ctx context.Context, ev events.Event) {
	log := w.log.With("entity", ev.Entity, "id", ev.ID, "status", ev.Status)

	if !ev.Deleted && w.alreadyNotified(ctx, ev, log) {
		return
	}

	switch ev.Entity {
	case events.EntityOrder:
		w.processOrder(ctx, ev, log)
	case events.EntityCustomOrder:
		w.processCustomOrder(ctx, ev, log)
	default:
		log.Warn("unknown event entity")
	}
}

func (w *NotificationWorker) alreadyNotified(ctx context.Context, ev events.Event, log *slog.Logger) bool {
	if w.redisClient == nil {
		return false
	}
	// Creation and each distinct assignment are separate notifications even
	// when the status string repeats, so they get their own keys.
	key := fmt.Sprintf("notified:%s:%s:%s", ev.Entity, ev.ID, ev.Status)
	if ev.Created {
		key += ":created"
	}
	if ev.DistributorID != "" {
		key += ":" + ev.DistributorID
	}
	set, err := w.redisClient.SetNX(ctx, key, "1", idempotencyTTL).Result()
	if err != nil {
		log.Warn("check idempotency key", "error", err)
		return false
	}
	if !set {
		log.Info("already notified, skipping")
	}
	return !set
}

func (w *NotificationWorker) processOrder(ctx context.Context, ev events.Event, log *slog.Logger) {
	id, err := primitive.ObjectIDFromHex(ev.ID)
	if err != nil {
		log.Error("bad order id in event")
		return
	}
	order, err := w.orderRepo.GetByID(ctx, id)
	if err != nil || order == nil {
		log.Warn("load order for notification", "error", err)
		return
	}

	n := notify.Notification{
		Event:   realtime.EventOrderUpdate,
		Payload: realtime.OrderUpdate{ID: ev.ID, Status: string(order.Status)},
	}

	switch {
	case ev.DistributorID != "":
		// Assignment notifies the distributor, not the customer.
		did, err := primitive.ObjectIDFromHex(ev.DistributorID)
		if err != nil {
			log.Error("bad distributor id in event")
			return
		}
		distributor, err := w.userRepo.GetByID(ctx, did)
		if err != nil || distributor == nil {
			log.Warn("load distributor for notification", "error", err)
			return
		}
		n.Email = distributor.Email
		n.EmailSubject = "New Order Assigned"
		n.EmailBody = fmt.Sprintf("<p>Hi %s, a new order has been assigned to you. Order ID: %s</p>",
			distributor.Name, ev.ID)
	case ev.Created:
		n.Email = order.CustomerEmail
		n.EmailSubject = "Order Confirmation"
		n.EmailBody = fmt.Sprintf("<h1>Thank you %s!</h1><p>Your order has been placed. Order ID: %s</p>",
			order.CustomerName, ev.ID)
		n.Phone = order.CustomerPhone
		n.SMSBody = fmt.Sprintf("Hi %s, your order (%s) has been placed! Total: %.2f BDT.",
			order.CustomerName, ev.ID, order.Total)
	default:
		n.Email = order.CustomerEmail
		n.EmailSubject = "Order Status Update"
		n.EmailBody = fmt.Sprintf("<p>Your order <b>%s</b> status has been updated to <b>%s</b>.</p>",
			ev.ID, order.Status)
		n.Phone = order.CustomerPhone
		n.SMSBody = fmt.Sprintf("Hi %s, your order (%s) status is now: %s",
			order.CustomerName, ev.ID, order.Status)
	}

	w.dispatcher.Dispatch(ctx, n)
}

func (w *NotificationWorker) processCustomOrder(ctx context.Context, ev events.Event, log *slog.Logger) {
	if ev.Deleted {
		w.dispatcher.Dispatch(ctx, notify.Notification{
			Event:   realtime.EventCustomOrderUpdate,
			Payload: realtime.CustomOrderUpdate{ID: ev.ID, Deleted: true},
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(ev.ID)
	if err != nil {
		log.Error("bad custom order id in event")
		return
	}
	order, err := w.customOrderRepo.GetByID(ctx, id)
	if err != nil || order == nil {
		log.Warn("load custom order for notification", "error", err)
		return
	}

	n := notify.Notification{
		Event:   realtime.EventCustomOrderUpdate,
		Payload: realtime.CustomOrderUpdate{ID: ev.ID, Status: string(order.Status)},
	}

	if ev.Created {
		// Intake notifies the shop admin, not the requester.
		n.Email = w.adminEmail
		n.EmailSubject = "New Custom Order Submitted"
		n.EmailBody = fmt.Sprintf("<p>New custom order from %s (%s, %s).</p>",
			order.Name, order.Email, order.Phone)
	} else {
		n.Email = order.Email
		n.EmailSubject = "Custom Order Status Update"
		n.EmailBody = fmt.Sprintf("<p>Hi %s,</p><p>Your custom order status is now: <b>%s</b>.</p>",
			order.Name, order.Status)
		n.Phone = order.Phone
		n.SMSBody = fmt.Sprintf("Your custom order status is now: %s", order.Status)
	}

	w.dispatcher.Dispatch(ctx, n)
}
