package notification_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type receivedWebhook struct {
	payload map[string]interface{}
	apiKey  string
}

type webhookRecorder struct {
	mu       sync.Mutex
	received []receivedWebhook
}

func (r *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.received = append(r.received, receivedWebhook{
			payload: payload,
			apiKey:  req.Header.Get("X-API-Key"),
		})
		r.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}
}

func (r *webhookRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func (r *webhookRecorder) last() receivedWebhook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received[len(r.received)-1]
}

var _ = Describe("Notification Dispatcher", func() {
	var (
		recorder   *webhookRecorder
		server     *httptest.Server
		dispatcher *notification.Dispatcher
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		recorder = &webhookRecorder{}
		server = httptest.NewServer(recorder.handler())

		dispatcher = notification.NewDispatcher(notification.Config{
			WebhookURL:   server.URL,
			APIKey:       "test-key",
			SendTimeout:  2 * time.Second,
			MaxWorkers:   2,
			JobQueueSize: 10,
		}, testLogger)
	})

	AfterEach(func() {
		dispatcher.Shutdown()
		server.Close()
	})

	It("delivers a checked-in event to the webhook", func() {
		event := events.NewCheckedInEvent(7, "Andi Pratama", "2026-03-02", "late",
			time.Date(2026, time.March, 2, 9, 45, 0, 0, time.UTC))

		err := dispatcher.HandleCheckedIn(context.Background(), event)
		Expect(err).NotTo(HaveOccurred())

		Eventually(recorder.count, "3s", "50ms").Should(Equal(1))

		got := recorder.last()
		Expect(got.apiKey).To(Equal("test-key"))
		Expect(got.payload["event_type"]).To(Equal(events.EventTypeCheckedIn))
		Expect(got.payload["user_name"]).To(Equal("Andi Pratama"))
		Expect(got.payload["status"]).To(Equal("late"))
		Expect(got.payload).NotTo(HaveKey("total_hours"))
	})

	It("delivers a checked-out event including total hours", func() {
		event := events.NewCheckedOutEvent(7, "Andi Pratama", "2026-03-02", "present", 8.25,
			time.Date(2026, time.March, 2, 17, 15, 0, 0, time.UTC))

		err := dispatcher.HandleCheckedOut(context.Background(), event)
		Expect(err).NotTo(HaveOccurred())

		Eventually(recorder.count, "3s", "50ms").Should(Equal(1))

		got := recorder.last()
		Expect(got.payload["event_type"]).To(Equal(events.EventTypeCheckedOut))
		Expect(got.payload["total_hours"]).To(Equal(8.25))
	})

	It("rejects an event payload of the wrong type", func() {
		base := events.BaseEvent{ID: "x", Type: events.EventTypeCheckedIn, Timestamp: time.Now()}
		err := dispatcher.HandleCheckedIn(context.Background(), base)
		Expect(err).To(HaveOccurred())
	})

	It("works end to end through the event bus", func() {
		bus := events.NewEventBus(testLogger)
		dispatcher.RegisterHandlers(bus)

		event := events.NewCheckedInEvent(8, "Budi Santoso", "2026-03-02", "present",
			time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))

		err := bus.Publish(context.Background(), event)
		Expect(err).NotTo(HaveOccurred())

		Eventually(recorder.count, "3s", "50ms").Should(Equal(1))
	})
})
