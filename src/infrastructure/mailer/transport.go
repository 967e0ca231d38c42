package mailer

import (
	"context"
	"fmt"

	logger "go-mailing-api/src/infrastructure/logger"
)

// Transport delivers a plain-text message and reports how many messages were sent
type Transport interface {
	Send(ctx context.Context, subject, body, from string, to []string) (int, error)
}

// TransportError is a failure reported by the mail server or the connection to it.
// Error returns the detail unchanged so it can be stored as the server response.
type TransportError struct {
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	return e.Detail
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(err error) *TransportError {
	return &TransportError{Detail: err.Error(), Err: err}
}

// NewTransport builds the transport selected by config.Backend
func NewTransport(config Config, loggerInstance *logger.Logger) (Transport, error) {
	switch config.Backend {
	case BackendSMTP:
		return NewSMTPTransport(config, loggerInstance), nil
	case BackendConsole:
		return NewConsoleTransport(loggerInstance), nil
	}
	return nil, fmt.Errorf("unknown mail backend %q", config.Backend)
}
