package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	emailclient "github.com/Apurer/gift-registry/internal/clients/http/email"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg emailclient.Message) (*emailclient.SendResult, error)
}

// Notifier renders the order emails and hands them to a Sender.
type Notifier struct {
	sender Sender
	from   string
	admin  string
	logger *slog.Logger
}

type Option func(*Notifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier requires both the sender and admin addresses.
func NewNotifier(sender Sender, from, admin string, opts ...Option) (*Notifier, error) {
	from, admin = strings.TrimSpace(from), strings.TrimSpace(admin)
	if sender == nil {
		return nil, errors.New("email sender is required")
	}
	if from == "" || admin == "" {
		return nil, errors.New("from and admin email addresses are required")
	}
	n := &Notifier{
		sender: sender,
		from:   from,
		admin:  admin,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n, nil
}

// SendOrderNotifications emails the admin and, when an address was given, the guest. A failed
// admin email does not prevent the guest email; both errors are reported.
func (n *Notifier) SendOrderNotifications(ctx context.Context, notification domain.Notification) error {
	var errs []error
	adminHTML, err := render(adminTemplate, notification)
	if err != nil {
		return fmt.Errorf("render admin email: %w", err)
	}
	if err := n.send(ctx, "admin", emailclient.Message{
		From:    n.from,
		To:      []string{n.admin},
		Subject: fmt.Sprintf("New gift received - %s", notification.SessionCode),
		HTML:    adminHTML,
		ReplyTo: notification.GuestEmail,
	}); err != nil {
		errs = append(errs, err)
	}

	if notification.GuestEmail != "" {
		guestHTML, err := render(guestTemplate, notification)
		if err != nil {
			return errors.Join(append(errs, fmt.Errorf("render guest email: %w", err))...)
		}
		if err := n.send(ctx, "guest", emailclient.Message{
			From:    n.from,
			To:      []string{notification.GuestEmail},
			Subject: fmt.Sprintf("Thank you for your gift - Code: %s", notification.SessionCode),
			HTML:    guestHTML,
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) send(ctx context.Context, kind string, msg emailclient.Message) error {
	result, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("%s email: %w", kind, err)
	}
	attrs := []slog.Attr{slog.String("email.kind", kind)}
	if result != nil {
		attrs = append(attrs, slog.String("email.id", result.ID))
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "order email sent", attrs...)
	return nil
}

// LogNotifier records notifications in the log when no email provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOrderNotifications(ctx context.Context, notification domain.Notification) error {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "email delivery disabled, order notification skipped",
		slog.String("session.code", notification.SessionCode),
		slog.Int("items", len(notification.Items)),
		slog.Bool("guest.email", notification.GuestEmail != ""))
	return nil
}

var (
	_ ports.Notifier = (*Notifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)
