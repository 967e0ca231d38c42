package mailing

import (
	"context"
	"errors"
	"testing"
	"time"

	domainAttempt "go-mailing-api/src/domain/attempt"
	domainMailing "go-mailing-api/src/domain/mailing"
	domainMessage "go-mailing-api/src/domain/message"
	"go-mailing-api/src/infrastructure/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMailing(id int) *domainMailing.Mailing {
	return &domainMailing.Mailing{
		ID:        id,
		Status:    domainMailing.StatusCreated,
		Frequency: domainMailing.FrequencyDaily,
		Message:   &domainMessage.Message{Subject: "Hello", Body: "World"},
		OwnerID:   7,
	}
}

func newTestOrchestrator(t *testing.T, repo *mockMailingRepository, attempts *mockAttemptRepository, transport mailer.Transport, now time.Time) *Orchestrator {
	o := NewOrchestrator(repo, attempts, transport, "noreply@example.com", setupLogger(t))
	o.now = func() time.Time { return now }
	return o
}

func TestStart_MixedOutcomes(t *testing.T) {
	repo := newMockMailingRepository()
	mailing := newMailing(1)
	repo.mailings[1] = mailing
	repo.emails[1] = []string{"a@x.com", "b@x.com"}
	attempts := &mockAttemptRepository{}
	transport := &mockTransport{sendFn: func(to string) (int, error) {
		if to == "b@x.com" {
			return 0, &mailer.TransportError{Detail: "connection refused"}
		}
		return 1, nil
	}}
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	err := newTestOrchestrator(t, repo, attempts, transport, now).Start(context.Background(), mailing)
	require.NoError(t, err)

	require.Len(t, attempts.attempts, 2)
	assert.Equal(t, domainAttempt.StatusSuccess, attempts.attempts[0].Status)
	assert.Equal(t, "Success", attempts.attempts[0].ServerResponse)
	assert.Equal(t, domainAttempt.StatusFailure, attempts.attempts[1].Status)
	assert.Equal(t, "connection refused", attempts.attempts[1].ServerResponse)
	for _, a := range attempts.attempts {
		assert.Equal(t, 1, a.MailingID)
		assert.Equal(t, 7, a.OwnerID)
	}
	assert.Equal(t, domainMailing.StatusStarted, mailing.Status)
	assert.Equal(t, domainMailing.StatusStarted, repo.mailings[1].Status)
	assert.Equal(t, now, *mailing.StartTime)
	assert.Equal(t, now, *mailing.EndTime)
}

func TestStart_ZeroCountIsFailure(t *testing.T) {
	repo := newMockMailingRepository()
	mailing := newMailing(1)
	repo.emails[1] = []string{"a@x.com"}
	attempts := &mockAttemptRepository{}
	transport := &mockTransport{sendFn: func(string) (int, error) { return 0, nil }}

	require.NoError(t, newTestOrchestrator(t, repo, attempts, transport, time.Now()).Start(context.Background(), mailing))
	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, domainAttempt.StatusFailure, attempts.attempts[0].Status)
	assert.Equal(t, "Error", attempts.attempts[0].ServerResponse)
	assert.Equal(t, domainMailing.StatusStarted, mailing.Status)
}

func TestStart_UnexpectedErrorsAndPanics(t *testing.T) {
	repo := newMockMailingRepository()
	mailing := newMailing(1)
	repo.emails[1] = []string{"err@x.com", "panic@x.com", "ok@x.com"}
	attempts := &mockAttemptRepository{}
	transport := &mockTransport{sendFn: func(to string) (int, error) {
		switch to {
		case "err@x.com":
			return 0, errors.New("template missing")
		case "panic@x.com":
			panic("nil pointer")
		}
		return 1, nil
	}}

	require.NoError(t, newTestOrchestrator(t, repo, attempts, transport, time.Now()).Start(context.Background(), mailing))
	require.Len(t, attempts.attempts, 3)
	assert.Equal(t, "unexpected error: template missing", attempts.attempts[0].ServerResponse)
	assert.Equal(t, "unexpected error: nil pointer", attempts.attempts[1].ServerResponse)
	assert.Equal(t, domainAttempt.StatusFailure, attempts.attempts[1].Status)
	assert.Equal(t, domainAttempt.StatusSuccess, attempts.attempts[2].Status)
}

func TestStart_StatusPersistFailureIsUnexpected(t *testing.T) {
	repo := newMockMailingRepository()
	repo.updateErr = errors.New("deadlock")
	repo.updateErrOnKey = "status"
	mailing := newMailing(1)
	repo.emails[1] = []string{"a@x.com"}
	attempts := &mockAttemptRepository{}
	transport := &mockTransport{sendFn: func(string) (int, error) { return 1, nil }}

	require.NoError(t, newTestOrchestrator(t, repo, attempts, transport, time.Now()).Start(context.Background(), mailing))
	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, domainAttempt.StatusFailure, attempts.attempts[0].Status)
	assert.Equal(t, "unexpected error: deadlock", attempts.attempts[0].ServerResponse)
}

func TestStart_SetupFailures(t *testing.T) {
	transport := &mockTransport{sendFn: func(string) (int, error) { return 1, nil }}

	repo := newMockMailingRepository()
	repo.updateErr = errors.New("db down")
	err := newTestOrchestrator(t, repo, &mockAttemptRepository{}, transport, time.Now()).Start(context.Background(), newMailing(1))
	assert.Error(t, err)

	repo = newMockMailingRepository()
	repo.emailsErr = errors.New("db down")
	err = newTestOrchestrator(t, repo, &mockAttemptRepository{}, transport, time.Now()).Start(context.Background(), newMailing(1))
	assert.Error(t, err)

	noMessage := newMailing(1)
	noMessage.Message = nil
	err = newTestOrchestrator(t, newMockMailingRepository(), &mockAttemptRepository{}, transport, time.Now()).Start(context.Background(), noMessage)
	assert.Error(t, err)
	assert.Empty(t, transport.calls)
}

func TestStart_AttemptWriteFailureDoesNotStopLoop(t *testing.T) {
	repo := newMockMailingRepository()
	repo.emails[1] = []string{"a@x.com", "b@x.com"}
	transport := &mockTransport{sendFn: func(string) (int, error) { return 1, nil }}

	err := newTestOrchestrator(t, repo, &mockAttemptRepository{createErr: errors.New("disk full")}, transport, time.Now()).Start(context.Background(), newMailing(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, transport.calls)
}

func TestStart_NoRecipients(t *testing.T) {
	repo := newMockMailingRepository()
	mailing := newMailing(1)
	attempts := &mockAttemptRepository{}
	now := time.Now()

	require.NoError(t, newTestOrchestrator(t, repo, attempts, &mockTransport{}, now).Start(context.Background(), mailing))
	assert.Empty(t, attempts.attempts)
	assert.Equal(t, now, *mailing.EndTime)
	assert.Equal(t, domainMailing.StatusCreated, mailing.Status)
}

func TestStop_AlwaysFinishes(t *testing.T) {
	for _, status := range []domainMailing.Status{domainMailing.StatusCreated, domainMailing.StatusStarted, domainMailing.StatusFinished} {
		repo := newMockMailingRepository()
		mailing := newMailing(1)
		mailing.Status = status
		repo.mailings[1] = mailing

		require.NoError(t, newTestOrchestrator(t, repo, &mockAttemptRepository{}, &mockTransport{}, time.Now()).Stop(mailing))
		assert.Equal(t, domainMailing.StatusFinished, mailing.Status)
		assert.Equal(t, domainMailing.StatusFinished, repo.mailings[1].Status)
	}
}
