package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeEmail) Send(_ context.Context, to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	return nil
}

type fakeHub struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeHub) Broadcast(event string, _ any) {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_AllChannels(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	hub := &fakeHub{}
	d := NewDispatcher(email, sms, hub, 0, testLogger())

	report := d.Dispatch(context.Background(), Notification{
		Email: "a@example.com", EmailSubject: "s", EmailBody: "b",
		Phone: "+880170", SMSBody: "sms",
		Event: "order:update", Payload: map[string]string{"id": "x"},
	})

	assert.True(t, report.Sent(ChannelEmail))
	assert.True(t, report.Sent(ChannelSMS))
	assert.True(t, report.Sent(ChannelBroadcast))
	assert.Equal(t, []string{"a@example.com"}, email.sent)
	assert.Equal(t, []string{"+880170"}, sms.sent)
	assert.Equal(t, []string{"order:update"}, hub.events)
}

func TestDispatcher_FailureIsIsolated(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	hub := &fakeHub{}
	d := NewDispatcher(email, sms, hub, 0, testLogger())

	report := d.Dispatch(context.Background(), Notification{
		Email: "a@example.com", Phone: "+880170", SMSBody: "sms",
		Event: "order:update",
	})

	assert.False(t, report.Sent(ChannelEmail))
	assert.True(t, report.Sent(ChannelSMS))
	assert.True(t, report.Sent(ChannelBroadcast))

	var emailResult *Result
	for i := range report.Results {
		if report.Results[i].Channel == ChannelEmail {
			emailResult = &report.Results[i]
		}
	}
	require.NotNil(t, emailResult)
	assert.Error(t, emailResult.Err)
}

func TestDispatcher_SkipsChannelsWithoutDestination(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	d := NewDispatcher(email, sms, &fakeHub{}, 0, testLogger())

	report := d.Dispatch(context.Background(), Notification{
		Event: "customOrder:update",
	})

	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Len(t, report.Results, 1)
	assert.True(t, report.Sent(ChannelBroadcast))
}

type stuckHub struct {
	release chan struct{}
}

func (s *stuckHub) Broadcast(string, any) { <-s.release }

func TestDispatcher_AbandonsStuckBroadcast(t *testing.T) {
	hub := &stuckHub{release: make(chan struct{})}
	defer close(hub.release)
	d := NewDispatcher(nil, nil, hub, 100*time.Millisecond, testLogger())

	start := time.Now()
	report := d.Dispatch(context.Background(), Notification{Event: "order:update"})

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, report.Sent(ChannelBroadcast))
	require.Len(t, report.Results, 1)
	assert.Error(t, report.Results[0].Err)
}

func TestDispatcher_NilTransports(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, 0, testLogger())

	report := d.Dispatch(context.Background(), Notification{
		Email: "a@example.com", Phone: "+880170", Event: "order:update",
	})
	assert.Empty(t, report.Results)
}
