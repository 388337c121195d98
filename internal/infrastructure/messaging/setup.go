package messaging

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/pkg/config"
)

// BuildSinks arma los canales configurados. El log siempre está; NATS y SMTP solo si tienen host.
// closeFn vacía la conexión NATS y debe llamarse después de cerrar el dispatcher.
func BuildSinks(cfg *config.Config, log zerolog.Logger) (sinks []notification.Sink, closeFn func(), err error) {
	closeFn = func() {}
	sinks = []notification.Sink{NewLogSink(log)}
	if cfg.NATS.URL != "" {
		nc, err := ConnectNATS(cfg.NATS.URL, cfg.App.Name, log)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() {
			if err := nc.Drain(); err != nil {
				log.Warn().Err(err).Msg("cerrar conexión NATS")
			}
		}
		sinks = append(sinks, NewNATSSink(nc, cfg.NATS.SubjectPrefix))
	}
	if cfg.SMTP.Host != "" {
		sinks = append(sinks, NewMailSink(MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			AdminTo:  cfg.SMTP.AdminTo,
		}))
	}
	return sinks, closeFn, nil
}
