package messaging

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/hrims-stock/internal/application/notification"
)

var _ notification.Sink = (*MailSink)(nil)

// mailSender lo cumple *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailConfig remitente y buzones de administración.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AdminTo  []string
}

// MailSink envía por correo los eventos dirigidos a administración.
// Solo requestCreated y lowStock; el resto se ignora sin error.
type MailSink struct {
	sender  mailSender
	from    string
	adminTo []string
}

// NewMailSink construye el sink con un dialer SMTP de gomail.
func NewMailSink(cfg MailConfig) *MailSink {
	return newMailSink(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, cfg.AdminTo)
}

func newMailSink(sender mailSender, from string, adminTo []string) *MailSink {
	return &MailSink{sender: sender, from: from, adminTo: adminTo}
}

func (s *MailSink) Name() string { return "mail" }

// Accepts indica si el evento genera correo.
func (s *MailSink) Accepts(ev notification.Event) bool {
	if ev.Recipient != notification.AdminRecipient || len(s.adminTo) == 0 {
		return false
	}
	return ev.Kind == notification.KindRequestCreated || ev.Kind == notification.KindLowStock
}

func (s *MailSink) Deliver(ctx context.Context, ev notification.Event) error {
	if !s.Accepts(ev) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.adminTo...)
	m.SetHeader("Subject", mailSubject(ev))
	m.SetBody("text/plain", mailBody(ev))
	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail %s: %w", ev.Kind, err)
	}
	return nil
}

func mailSubject(ev notification.Event) string {
	switch ev.Kind {
	case notification.KindLowStock:
		return fmt.Sprintf("Stock bajo: ítem %v en bodega %v", ev.Payload["item_id"], ev.Payload["warehouse_id"])
	case notification.KindRequestCreated:
		return fmt.Sprintf("Nueva solicitud %v", ev.Payload["request_id"])
	}
	return string(ev.Kind)
}

// mailBody lista el payload en orden de clave para que el correo sea estable.
func mailBody(ev notification.Event) string {
	keys := make([]string, 0, len(ev.Payload))
	for k := range ev.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	fmt.Fprintf(&b, "Evento: %s\nFecha: %s\n\n", ev.Kind, ev.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, ev.Payload[k])
	}
	return b.String()
}
