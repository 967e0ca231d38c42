package mailer

import (
	"context"
	"crypto/tls"

	logger "go-mailing-api/src/infrastructure/logger"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

type SMTPTransport struct {
	dialer *gomail.Dialer
	Logger *logger.Logger
}

func NewSMTPTransport(config Config, loggerInstance *logger.Logger) *SMTPTransport {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	dialer.SSL = config.UseSSL
	dialer.Timeout = config.Timeout
	if config.UseSSL {
		dialer.TLSConfig = &tls.Config{ServerName: config.Host}
	}
	return &SMTPTransport{dialer: dialer, Logger: loggerInstance}
}

// Send opens a connection per call and delivers one message to all of to
func (t *SMTPTransport) Send(ctx context.Context, subject, body, from string, to []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.Logger.Warn("SMTP delivery failed", zap.Error(err), zap.Strings("to", to), zap.String("host", t.dialer.Host))
		return 0, newTransportError(err)
	}

	t.Logger.Debug("SMTP delivery succeeded", zap.Strings("to", to))
	return len(to), nil
}
