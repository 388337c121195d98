// Package messaging contiene los canales de entrega de notificaciones: NATS, correo y log.
package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/notification"
)

var _ notification.Sink = (*NATSSink)(nil)

// natsPublisher lo cumple *nats.Conn.
type natsPublisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publica cada evento en <prefix>.<kind>. Los consumidores (portal, correo de usuarios) se suscriben con <prefix>.>.
type NATSSink struct {
	conn   natsPublisher
	prefix string
}

// NewNATSSink construye el sink sobre una conexión ya abierta.
func NewNATSSink(conn natsPublisher, subjectPrefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: strings.TrimSuffix(subjectPrefix, ".")}
}

func (s *NATSSink) Name() string { return "nats" }

// Subject devuelve el subject donde se publica un tipo de evento.
func (s *NATSSink) Subject(kind notification.Kind) string {
	if s.prefix == "" {
		return string(kind)
	}
	return s.prefix + "." + string(kind)
}

func (s *NATSSink) Deliver(ctx context.Context, ev notification.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := s.conn.Publish(s.Subject(ev.Kind), data); err != nil {
		return fmt.Errorf("publish %s: %w", s.Subject(ev.Kind), err)
	}
	return nil
}

// ConnectNATS abre la conexión con reconexión infinita; las desconexiones se registran en el log.
func ConnectNATS(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS desconectado")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return conn, nil
}
