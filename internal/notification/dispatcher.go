package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/core/events"
)

// Job is one webhook delivery. Jobs are built from attendance events and
// carry everything the payload needs, so workers never touch the database.
type Job struct {
	EventID    string
	EventType  string
	UserID     int64
	UserName   string
	Date       string
	Status     string
	TotalHours *float64
	OccurredAt time.Time
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing notification", "worker_id", w.ID, "event_id", job.EventID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher delivers attendance notifications to an external webhook
// through a bounded worker pool. Deliveries are best effort: a full queue or
// a failed POST is logged and dropped, never surfaced to the caller.
type Dispatcher struct {
	webhookURL  string
	apiKey      string
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	WebhookURL   string
	APIKey       string
	SendTimeout  time.Duration
	MaxWorkers   int
	JobQueueSize int
}

func NewDispatcher(config Config, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		webhookURL:  config.WebhookURL,
		apiKey:      config.APIKey,
		sendTimeout: sendTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {

		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	d.wg.Add(1)
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:

			select {
			case jobChannel := <-d.workerPool:

				select {
				case jobChannel <- job:

				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

// RegisterHandlers subscribes the dispatcher to the attendance events it
// forwards.
func (d *Dispatcher) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeCheckedIn, d.HandleCheckedIn)
	bus.Subscribe(events.EventTypeCheckedOut, d.HandleCheckedOut)
}

func (d *Dispatcher) HandleCheckedIn(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CheckedInEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	d.enqueue(Job{
		EventID:    e.EventID(),
		EventType:  e.EventType(),
		UserID:     e.UserID,
		UserName:   e.UserName,
		Date:       e.Date,
		Status:     e.Status,
		OccurredAt: e.CheckInTime,
	})
	return nil
}

func (d *Dispatcher) HandleCheckedOut(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CheckedOutEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	totalHours := e.TotalHours
	d.enqueue(Job{
		EventID:    e.EventID(),
		EventType:  e.EventType(),
		UserID:     e.UserID,
		UserName:   e.UserName,
		Date:       e.Date,
		Status:     e.Status,
		TotalHours: &totalHours,
		OccurredAt: e.CheckOutTime,
	})
	return nil
}

func (d *Dispatcher) enqueue(job Job) {
	select {
	case d.jobQueue <- job:
		d.logger.Debug("notification queued",
			"event_id", job.EventID,
			"queue_length", len(d.jobQueue))
	default:
		d.logger.Warn("notification queue full, dropping",
			"event_id", job.EventID,
			"queue_capacity", cap(d.jobQueue))
	}
}

func (d *Dispatcher) deliver(job Job) {
	payload := map[string]interface{}{
		"event_id":    job.EventID,
		"event_type":  job.EventType,
		"user_id":     job.UserID,
		"user_name":   job.UserName,
		"date":        job.Date,
		"status":      job.Status,
		"occurred_at": job.OccurredAt,
	}
	if job.TotalHours != nil {
		payload["total_hours"] = *job.TotalHours
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to marshal notification payload", "event_id", job.EventID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		d.logger.Error("failed to create webhook request", "event_id", job.EventID, "error", err)
		return
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		httpReq.Header.Set("X-API-Key", d.apiKey)
	}

	client := &http.Client{Timeout: d.sendTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		d.logger.Error("webhook delivery failed", "event_id", job.EventID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Error("webhook returned non-success status",
			"event_id", job.EventID,
			"status_code", resp.StatusCode)
		return
	}

	d.logger.Info("notification delivered",
		"event_id", job.EventID,
		"event_type", job.EventType,
		"user_id", job.UserID)
}
