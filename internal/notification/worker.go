package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"seatmap-backend/internal/model"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// webPushSender is the real PushSender backed by the webpush library.
type webPushSender struct{}

func (s *webPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans booking notifications out to web-push subscribers. Jobs
// are flight IDs; each job notifies every subscription watching that flight.
// Delivery is best-effort and entirely off the booking path.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  PushSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &webPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case flightID := <-wp.jobs:
			wp.notifyFlight(ctx, flightID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification job. It never blocks: bookings must not
// wait on the push pipeline, so when the queue is full the job is dropped.
func (wp *WorkerPool) Dispatch(flightID string) {
	select {
	case wp.jobs <- flightID:
	default:
		log.Printf("notification queue full, dropping update for flight %s", flightID)
	}
}

// notifyFlight fetches the flight's subscriptions and sends one notification
// to each.
func (wp *WorkerPool) notifyFlight(ctx context.Context, flightID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for flight %s: %v", flightID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("sending %d notifications for flight %s", len(subscriptions), flightID)
	payload := []byte(fmt.Sprintf("A seat was just booked on flight %s", flightID))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// The push service reports Gone when the browser dropped the subscription.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
