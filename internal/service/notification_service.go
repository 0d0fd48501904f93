package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/pkg/jobs"
	"github.com/tutorhive/tutorhive-api/pkg/mailer"
)

// notification is the payload carried through the jobs queue.
type notification struct {
	Subject    string
	Body       string
	Recipients []string
}

// NotificationService delivers booking emails. Send is synchronous and
// reports the outcome; SendAsync hands the message to the worker queue and
// never blocks the caller on delivery.
type NotificationService struct {
	sender  mailer.Sender
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs a NotificationService. Call Start before
// using SendAsync.
func NewNotificationService(sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg jobs.Config) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{sender: sender, metrics: metrics, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handleJob, cfg)
	return s
}

// Start launches the async delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Send delivers the message now and reports failure to the caller.
func (s *NotificationService) Send(ctx context.Context, subject, body string, recipients []string) error {
	err := s.sender.Send(subject, body, recipients)
	s.metrics.RecordNotification(err == nil)
	if err != nil {
		s.logger.Error("notification send failed",
			zap.String("subject", subject),
			zap.Strings("recipients", recipients),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("notification sent", zap.String("subject", subject), zap.Strings("recipients", recipients))
	return nil
}

// SendAsync queues the message for best-effort delivery with retries.
// Failures are logged by the workers and never surface to the caller.
func (s *NotificationService) SendAsync(subject, body string, recipients []string) {
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "email",
		Payload: notification{Subject: subject, Body: body, Recipients: recipients},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to queue notification", zap.String("subject", subject), zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.Send(ctx, msg.Subject, msg.Body, msg.Recipients)
}
