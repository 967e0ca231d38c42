package message

import (
	"testing"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMessage "go-mailing-api/src/domain/message"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMessageRepository struct {
	messages       map[int]*domainMessage.Message
	lastOwnerScope *int
}

func (m *mockMessageRepository) GetAll(ownerID *int, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error) {
	m.lastOwnerScope = ownerID
	data := []domainMessage.Message{}
	for _, msg := range m.messages {
		if ownerID == nil || (msg.OwnerID != nil && *msg.OwnerID == *ownerID) {
			data = append(data, *msg)
		}
	}
	return domain.NewPaginatedResult(&data, int64(len(data)), filters), nil
}
func (m *mockMessageRepository) GetByID(id int) (*domainMessage.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
}
func (m *mockMessageRepository) Create(msg *domainMessage.Message) (*domainMessage.Message, error) {
	msg.ID = len(m.messages) + 1
	m.messages[msg.ID] = msg
	return msg, nil
}
func (m *mockMessageRepository) Update(id int, messageMap map[string]interface{}) (*domainMessage.Message, error) {
	msg := m.messages[id]
	if v, ok := messageMap["subject"].(string); ok {
		msg.Subject = v
	}
	return msg, nil
}
func (m *mockMessageRepository) Delete(id int) error {
	delete(m.messages, id)
	return nil
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func TestMessageUseCase_OwnerScoping(t *testing.T) {
	repo := &mockMessageRepository{messages: map[int]*domainMessage.Message{}}
	uc := NewMessageUseCase(repo, setupLogger(t))

	alice := domainPermission.Identity{UserID: 1, Role: domainPermission.RoleUser}
	bob := domainPermission.Identity{UserID: 2, Role: domainPermission.RoleUser}
	admin := domainPermission.Identity{UserID: 3, Role: domainPermission.RoleAdmin}

	created, err := uc.Create(alice, &domainMessage.Message{Subject: "Hi", Body: "There"})
	require.NoError(t, err)
	assert.Equal(t, 1, *created.OwnerID)

	list, err := uc.GetAll(bob, domain.DataFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)
	assert.Equal(t, 2, *repo.lastOwnerScope)

	list, err = uc.GetAll(admin, domain.DataFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Nil(t, repo.lastOwnerScope)

	_, err = uc.Update(bob, created.ID, map[string]interface{}{"subject": "Hacked"})
	assert.True(t, domainErrors.IsType(err, domainErrors.NotAuthorized))

	updated, err := uc.Update(alice, created.ID, map[string]interface{}{"subject": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Subject)

	assert.True(t, domainErrors.IsType(uc.Delete(bob, created.ID), domainErrors.NotAuthorized))
	require.NoError(t, uc.Delete(admin, created.ID))
	_, err = uc.GetByID(alice, created.ID)
	assert.True(t, domainErrors.IsType(err, domainErrors.NotFound))
}
