package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

const queueSize = 64

// WorkerPool manages a pool of workers that push hall events to the
// affected student's browsers.
type WorkerPool struct {
	size    int
	jobs    chan hall.Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan hall.Event, queueSize),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	logrus.Debugf("Worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			logrus.WithFields(logrus.Fields{"worker": id, "kind": ev.Kind, "student": ev.StudentID}).Debug("Processing event")
			wp.sendNotificationsForEvent(ctx, ev)
		case <-ctx.Done():
			logrus.Debugf("Worker %d shutting down", id)
			return
		}
	}
}

// Notify is a hall listener. It queues events a student should hear about
// and drops them when the queue is full rather than stall the caller.
func (wp *WorkerPool) Notify(ev hall.Event) {
	if _, ok := Message(ev); !ok {
		return
	}
	select {
	case wp.jobs <- ev:
	default:
		logrus.WithFields(logrus.Fields{"kind": ev.Kind, "student": ev.StudentID}).Warn("Notification queue full; dropping event")
	}
}

// Message returns the push text for ev, or false when the event is not
// worth a notification.
func Message(ev hall.Event) (string, bool) {
	if ev.StudentID == "" {
		return "", false
	}
	switch ev.Kind {
	case hall.EventSeatAssigned:
		return fmt.Sprintf("You have been assigned a seat in room %s.", ev.RoomNumber), true
	case hall.EventSeatReleased:
		return fmt.Sprintf("Your seat in room %s has been released.", ev.RoomNumber), true
	case hall.EventComplaintResolved:
		return fmt.Sprintf("Your complaint %s has been resolved.", ev.RefID), true
	case hall.EventAppointmentApproved:
		return fmt.Sprintf("Your appointment %s has been approved.", ev.RefID), true
	case hall.EventAppointmentRejected:
		return fmt.Sprintf("Your appointment %s has been rejected.", ev.RefID), true
	}
	return "", false
}

// sendNotificationsForEvent fetches the student's subscriptions and sends the event message.
func (wp *WorkerPool) sendNotificationsForEvent(ctx context.Context, ev hall.Event) {
	message, ok := Message(ev)
	if !ok {
		return
	}

	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("student_id = ?", ev.StudentID).
		Find(&subscriptions).Error
	if err != nil {
		logrus.WithError(err).WithField("student", ev.StudentID).Error("Error fetching subscriptions")
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	logrus.Infof("Sending %d notifications to student %s", len(subscriptions), ev.StudentID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
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
		logrus.WithError(err).WithField("endpoint", sub.Endpoint).Error("Error sending notification")
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		logrus.Infof("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to delete expired subscription %s", sub.Endpoint)
		}
	}
}
