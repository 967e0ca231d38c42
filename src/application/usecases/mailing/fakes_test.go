package mailing

import (
	"context"
	"testing"

	"go-mailing-api/src/domain"
	domainAttempt "go-mailing-api/src/domain/attempt"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMailing "go-mailing-api/src/domain/mailing"
	domainMessage "go-mailing-api/src/domain/message"
	domainRecipient "go-mailing-api/src/domain/recipient"
	logger "go-mailing-api/src/infrastructure/logger"
)

type mockMailingRepository struct {
	mailings       map[int]*domainMailing.Mailing
	emails         map[int][]string
	updates        []map[string]interface{}
	updateErr      error
	updateErrOnKey string
	emailsErr      error
	counts         map[string]int64
	lastScope      *int
}

func newMockMailingRepository() *mockMailingRepository {
	return &mockMailingRepository{
		mailings: map[int]*domainMailing.Mailing{},
		emails:   map[int][]string{},
		counts:   map[string]int64{},
	}
}

func (m *mockMailingRepository) GetAll(ownerID *int, filters domain.DataFilters) (*domainMailing.SearchResultMailing, error) {
	m.lastScope = ownerID
	data := []domainMailing.Mailing{}
	return domain.NewPaginatedResult(&data, 0, filters), nil
}
func (m *mockMailingRepository) GetByID(id int) (*domainMailing.Mailing, error) {
	if found, ok := m.mailings[id]; ok {
		c := *found
		return &c, nil
	}
	return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
}
func (m *mockMailingRepository) Create(mailing *domainMailing.Mailing, recipientIDs []int) (*domainMailing.Mailing, error) {
	mailing.ID = len(m.mailings) + 1
	m.mailings[mailing.ID] = mailing
	return mailing, nil
}
func (m *mockMailingRepository) Update(id int, mailingMap map[string]interface{}, recipientIDs []int) (*domainMailing.Mailing, error) {
	m.updates = append(m.updates, mailingMap)
	if m.updateErr != nil {
		if _, ok := mailingMap[m.updateErrOnKey]; ok || m.updateErrOnKey == "" {
			return nil, m.updateErr
		}
	}
	stored, ok := m.mailings[id]
	if !ok {
		return &domainMailing.Mailing{}, nil
	}
	for k, v := range mailingMap {
		switch k {
		case "status":
			stored.Status = domainMailing.Status(v.(string))
		case "frequency":
			stored.Frequency = domainMailing.Frequency(v.(string))
		}
	}
	c := *stored
	return &c, nil
}
func (m *mockMailingRepository) Delete(id int) error {
	delete(m.mailings, id)
	return nil
}
func (m *mockMailingRepository) GetRecipientEmails(id int) ([]string, error) {
	if m.emailsErr != nil {
		return nil, m.emailsErr
	}
	return m.emails[id], nil
}
func (m *mockMailingRepository) Count(ownerID *int, status *domainMailing.Status) (int64, error) {
	m.lastScope = ownerID
	if status != nil {
		return m.counts[string(*status)], nil
	}
	return m.counts["all"], nil
}

type mockAttemptRepository struct {
	attempts  []domainAttempt.Attempt
	createErr error
}

func (m *mockAttemptRepository) Create(a *domainAttempt.Attempt) (*domainAttempt.Attempt, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	a.ID = len(m.attempts) + 1
	m.attempts = append(m.attempts, *a)
	return a, nil
}
func (m *mockAttemptRepository) GetAll(ownerID *int, mailingID *int, filters domain.DataFilters) (*domainAttempt.SearchResultAttempt, error) {
	return domain.NewPaginatedResult(&m.attempts, int64(len(m.attempts)), filters), nil
}
func (m *mockAttemptRepository) CountByStatus(ownerID *int) (*domainAttempt.Totals, error) {
	return &domainAttempt.Totals{}, nil
}

type mockTransport struct {
	sendFn func(to string) (int, error)
	calls  []string
}

func (m *mockTransport) Send(ctx context.Context, subject, body, from string, to []string) (int, error) {
	m.calls = append(m.calls, to[0])
	return m.sendFn(to[0])
}

type mockMessageRepository struct {
	messages map[int]*domainMessage.Message
}

func (m *mockMessageRepository) GetAll(ownerID *int, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error) {
	return nil, nil
}
func (m *mockMessageRepository) GetByID(id int) (*domainMessage.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
}
func (m *mockMessageRepository) Create(msg *domainMessage.Message) (*domainMessage.Message, error) {
	return msg, nil
}
func (m *mockMessageRepository) Update(id int, messageMap map[string]interface{}) (*domainMessage.Message, error) {
	return nil, nil
}
func (m *mockMessageRepository) Delete(id int) error { return nil }

type mockRecipientRepository struct {
	recipients map[int]*domainRecipient.Recipient
	count      int64
}

func (m *mockRecipientRepository) GetAll(ownerID *int, filters domain.DataFilters) (*domainRecipient.SearchResultRecipient, error) {
	return nil, nil
}
func (m *mockRecipientRepository) GetByID(id int) (*domainRecipient.Recipient, error) {
	return m.recipients[id], nil
}
func (m *mockRecipientRepository) GetByIDs(ids []int) (*[]domainRecipient.Recipient, error) {
	out := []domainRecipient.Recipient{}
	for _, id := range ids {
		if r, ok := m.recipients[id]; ok {
			out = append(out, *r)
		}
	}
	return &out, nil
}
func (m *mockRecipientRepository) Create(r *domainRecipient.Recipient) (*domainRecipient.Recipient, error) {
	return r, nil
}
func (m *mockRecipientRepository) Update(id int, recipientMap map[string]interface{}) (*domainRecipient.Recipient, error) {
	return nil, nil
}
func (m *mockRecipientRepository) Delete(id int) error               { return nil }
func (m *mockRecipientRepository) Count(ownerID *int) (int64, error) { return m.count, nil }

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func intPtr(v int) *int { return &v }
