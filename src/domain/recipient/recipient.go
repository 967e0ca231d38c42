package recipient

import (
	"time"

	"go-mailing-api/src/domain"
)

// Recipient is a contact eligible to receive mailings
type Recipient struct {
	ID        int
	Email     string
	FullName  string
	Comment   string
	OwnerID   *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SearchResultRecipient = domain.PaginatedResult[Recipient]

type IRecipientService interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*SearchResultRecipient, error)
	GetByID(id int) (*Recipient, error)
	GetByIDs(ids []int) (*[]Recipient, error)
	Create(recipient *Recipient) (*Recipient, error)
	Update(id int, recipientMap map[string]interface{}) (*Recipient, error)
	Delete(id int) error
	Count(ownerID *int) (int64, error)
}
