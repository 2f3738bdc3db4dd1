package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/pkg/helpers"
)

// Notifier delivers verification and reset codes. When no outbound
// transport is configured the flow must still succeed, so Send reports
// simulated=true and the caller echoes the code back to the client instead
// of mailing it. A configured transport never reports simulated.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) (simulated bool, err error)
}

// QueueNotifier enqueues EmailJobs on RabbitMQ; cmd/email_worker delivers
// them through Mailgun.
type QueueNotifier struct {
	Pub *helpers.RabbitPublisher
}

func (n *QueueNotifier) Send(ctx context.Context, to, subject, body string) (bool, error) {
	return false, n.Pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, Text: body})
}

// DirectNotifier sends through Mailgun synchronously. Used when Mailgun is
// configured but no queue is.
type DirectNotifier struct {
	MG *Mailgun
}

func (n *DirectNotifier) Send(ctx context.Context, to, subject, body string) (bool, error) {
	return false, n.MG.Send(ctx, to, subject, body)
}

// SimulatedNotifier is the unconfigured fallback: it only logs.
type SimulatedNotifier struct {
	Logger *logrus.Logger
}

func (n *SimulatedNotifier) Send(ctx context.Context, to, subject, body string) (bool, error) {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).
			Info("mail transport not configured, simulating delivery")
	}
	return true, nil
}

// NewNotifier picks the delivery mode from what is configured, preferring
// the queue over direct sending.
func NewNotifier(pub *helpers.RabbitPublisher, mg *Mailgun, logger *logrus.Logger) Notifier {
	switch {
	case pub != nil:
		return &QueueNotifier{Pub: pub}
	case mg != nil:
		return &DirectNotifier{MG: mg}
	default:
		return &SimulatedNotifier{Logger: logger}
	}
}
