package message

import (
	"time"

	"go-mailing-api/src/domain"
)

// Message is a reusable subject and body pair
type Message struct {
	ID        int
	Subject   string
	Body      string
	OwnerID   *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SearchResultMessage = domain.PaginatedResult[Message]

type IMessageService interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*SearchResultMessage, error)
	GetByID(id int) (*Message, error)
	Create(message *Message) (*Message, error)
	Update(id int, messageMap map[string]interface{}) (*Message, error)
	Delete(id int) error
}
