package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"conference-review-api/config"
	"conference-review-api/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notification types emitted by the review workflow.
const (
	NotificationNewEvaluation      = "new_evaluation"
	NotificationEvaluationAssigned = "evaluation_assigned"
)

// StatusNotificationType is the type sent to an author when their submission moves to status.
func StatusNotificationType(status string) string {
	return "submission_" + status
}

// Notifier delivers a message to a user. Delivery is best-effort: implementations log
// failures and never report them to the workflow.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, message string, data map[string]interface{})
}

func notificationTitle(kind string) string {
	switch {
	case kind == NotificationNewEvaluation:
		return "New evaluation received"
	case kind == NotificationEvaluationAssigned:
		return "New review assignment"
	case strings.HasPrefix(kind, "submission_"):
		return "Submission status updated"
	}
	return "Notification"
}

// MultiNotifier fans a notification out to every channel.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, userID uint, kind, message string, data map[string]interface{}) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, userID, kind, message, data)
		}
	}
}

// StoreNotifier writes notifications to the user's inbox table.
type StoreNotifier struct {
	db *gorm.DB
}

func NewStoreNotifier(db *gorm.DB) *StoreNotifier {
	if db == nil {
		db = config.DB
	}
	return &StoreNotifier{db: db}
}

func (n *StoreNotifier) Notify(ctx context.Context, userID uint, kind, message string, data map[string]interface{}) {
	row := models.Notification{
		UserID:    userID,
		Type:      kind,
		Title:     notificationTitle(kind),
		Message:   message,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	storeCtx, cancel := afterCommitContext(ctx, notifyTimeout)
	defer cancel()

	if err := n.db.WithContext(storeCtx).Create(&row).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    kind,
		}).Warn("notification insert failed")
	}
}

// MailNotifier emails the notification to the user's address.
type MailNotifier struct {
	db   *gorm.DB
	send func(to []string, subject, html string) error
}

func NewMailNotifier(db *gorm.DB, send func(to []string, subject, html string) error) *MailNotifier {
	if db == nil {
		db = config.DB
	}
	if send == nil {
		send = config.SendMail
	}
	return &MailNotifier{db: db, send: send}
}

func (n *MailNotifier) Notify(ctx context.Context, userID uint, kind, message string, data map[string]interface{}) {
	lookupCtx, cancel := afterCommitContext(ctx, notifyTimeout)
	defer cancel()

	var user models.User
	if err := n.db.WithContext(lookupCtx).
		Select("user_id", "name", "email").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		First(&user).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("notification email skipped: recipient lookup failed")
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		return
	}

	subject := notificationTitle(kind)
	if err := n.send([]string{user.Email}, subject, buildEmailHTML(subject, user.Name, message)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"subject": subject,
			"to":      user.Email,
		}).Warn("notification email send failed")
	}
}

func buildEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "participant"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

// Publisher is the subset of *amqp.Channel used to emit notification events.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NotificationEvent is the JSON body published for each notification.
type NotificationEvent struct {
	UserID     uint                   `json:"user_id"`
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// QueueNotifier publishes notification events to a message queue for external consumers.
type QueueNotifier struct {
	publisher Publisher
	queue     string
	timeout   time.Duration
}

func NewQueueNotifier(publisher Publisher, queue string) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, queue: queue, timeout: 5 * time.Second}
}

func (n *QueueNotifier) Notify(ctx context.Context, userID uint, kind, message string, data map[string]interface{}) {
	body, err := json.Marshal(NotificationEvent{
		UserID:     userID,
		Type:       kind,
		Message:    message,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		logrus.WithError(err).WithField("type", kind).Warn("notification event encode failed")
		return
	}

	pubCtx, cancel := afterCommitContext(ctx, n.timeout)
	defer cancel()

	if err := n.publisher.PublishWithContext(pubCtx,
		"",      // exchange
		n.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Type:         kind,
			Body:         body,
		},
	); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"queue": n.queue,
			"type":  kind,
		}).Warn("notification publish failed")
	}
}
