package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type NotificationJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Kind    string    `json:"kind"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body, kind string) error {
	job := NotificationJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Kind:    kind,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", to, err)
		metrics.RecordNotification(kind, "queue_failed")
		return err
	}

	metrics.RecordNotification(kind, "queued")
	logger.Infof("Notification queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	metrics.NotificationQueueLength.Set(float64(s.QueueLength(ctx)))

	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job NotificationJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending notification to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordNotification(job.Kind, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Kind, "sent")
	logger.Infof("Notification sent successfully to %s", job.To)
}

func (s *Service) sendNow(job NotificationJob) error {

	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	err := smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))

	return err
}

func (s *Service) saveFailed(job NotificationJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

// SendMembershipNotice satisfies membership.Notifier. Subjects follow the
// membership event names: subscribed, renewed, plan_changed, frozen,
// unfrozen, expired, cancelled.
func (s *Service) SendMembershipNotice(ctx context.Context, email, name, event, details string) error {
	subject := membershipSubject(event)
	body := fmt.Sprintf(`Hi %s,

%s

%s

- GymDesk Team`, name, membershipIntro(event), details)

	return s.Send(ctx, email, name, subject, body, "membership_"+event)
}

func membershipSubject(event string) string {
	switch event {
	case "subscribed":
		return "Welcome to GymDesk - Membership Active"
	case "renewed":
		return "Membership Renewed"
	case "plan_changed":
		return "Membership Plan Changed"
	case "frozen":
		return "Membership Frozen"
	case "unfrozen":
		return "Membership Reactivated"
	case "expired":
		return "Membership Expired"
	case "cancelled":
		return "Membership Cancelled"
	default:
		return "Membership Update"
	}
}

func membershipIntro(event string) string {
	switch event {
	case "subscribed":
		return "Your membership is now active. Welcome aboard!"
	case "renewed":
		return "Your membership has been renewed."
	case "plan_changed":
		return "Your membership plan has been changed."
	case "frozen":
		return "Your membership is now frozen. Check-ins are paused until you reactivate."
	case "unfrozen":
		return "Your membership is active again. See you at the gym!"
	case "expired":
		return "Your membership has expired. Renew any time to get back in."
	case "cancelled":
		return "Your membership has been cancelled."
	default:
		return "There is an update on your membership."
	}
}
