package mailer

import (
	"context"

	logger "go-mailing-api/src/infrastructure/logger"

	"go.uber.org/zap"
)

// ConsoleTransport writes messages to the log instead of delivering them
type ConsoleTransport struct {
	Logger *logger.Logger
}

func NewConsoleTransport(loggerInstance *logger.Logger) *ConsoleTransport {
	return &ConsoleTransport{Logger: loggerInstance}
}

func (t *ConsoleTransport) Send(ctx context.Context, subject, body, from string, to []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.Logger.Info("Outgoing email",
		zap.String("from", from),
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return len(to), nil
}
