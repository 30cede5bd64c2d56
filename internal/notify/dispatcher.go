package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var errBroadcastTimeout = errors.New("broadcast timed out")

// EmailSender delivers a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMSSender delivers a single text message.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// Broadcaster pushes an event to connected real-time clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

const (
	ChannelEmail     = "email"
	ChannelSMS       = "sms"
	ChannelBroadcast = "broadcast"
)

type Result struct {
	Channel string
	Sent    bool
	Err     error
}

// Report aggregates per-channel outcomes of one dispatch.
type Report struct {
	Results []Result
}

func (r Report) Sent(channel string) bool {
	for _, res := range r.Results {
		if res.Channel == channel {
			return res.Sent
		}
	}
	return false
}

// Notification is one fully-templated status change to fan out. Channels
// without a destination are skipped.
type Notification struct {
	Email        string
	EmailSubject string
	EmailBody    string

	Phone   string
	SMSBody string

	Event   string
	Payload any
}

// Dispatcher attempts email, SMS and real-time broadcast for a notification.
// The attempts are independent and bounded by a per-channel timeout; every
// failure is logged and absorbed. Dispatch never fails its caller.
type Dispatcher struct {
	email   EmailSender
	sms     SMSSender
	hub     Broadcaster
	timeout time.Duration
	log     *slog.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, hub Broadcaster, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{email: email, sms: sms, hub: hub, timeout: timeout, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) Report {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []Result
	)
	record := func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	if n.Email != "" && d.email != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			if err := d.email.Send(cctx, n.Email, n.EmailSubject, n.EmailBody); err != nil {
				d.log.Warn("email notification failed", "to", n.Email, "error", err)
				record(Result{Channel: ChannelEmail, Err: err})
				return
			}
			record(Result{Channel: ChannelEmail, Sent: true})
		}()
	}

	if n.Phone != "" && d.sms != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			if err := d.sms.Send(cctx, n.Phone, n.SMSBody); err != nil {
				d.log.Warn("sms notification failed", "to", n.Phone, "error", err)
				record(Result{Channel: ChannelSMS, Err: err})
				return
			}
			record(Result{Channel: ChannelSMS, Sent: true})
		}()
	}

	if n.Event != "" && d.hub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := make(chan struct{})
			go func() {
				d.hub.Broadcast(n.Event, n.Payload)
				close(done)
			}()
			select {
			case <-done:
				record(Result{Channel: ChannelBroadcast, Sent: true})
			case <-time.After(d.timeout):
				// Abandon the attempt; the stray goroutine finishes on
				// its own once the hub unblocks.
				d.log.Warn("broadcast notification timed out", "event", n.Event)
				record(Result{Channel: ChannelBroadcast, Err: errBroadcastTimeout})
			}
		}()
	}

	wg.Wait()
	return Report{Results: results}
}
