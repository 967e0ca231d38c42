package attempt

import (
	"time"

	"go-mailing-api/src/domain"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ResponseSuccess is recorded when the transport accepted the message
const ResponseSuccess = "Success"

// ResponseError is recorded when the transport returned without error but sent nothing
const ResponseError = "Error"

// Attempt is the outcome of sending a mailing to one recipient. Attempts are never updated.
type Attempt struct {
	ID             int
	Status         Status
	ServerResponse string
	MailingID      int
	OwnerID        int
	CreatedAt      time.Time
}

type SearchResultAttempt = domain.PaginatedResult[Attempt]

// Totals counts attempts by outcome
type Totals struct {
	Sent   int64
	Failed int64
}

type IAttemptService interface {
	Create(attempt *Attempt) (*Attempt, error)
	GetAll(ownerID *int, mailingID *int, filters domain.DataFilters) (*SearchResultAttempt, error)
	CountByStatus(ownerID *int) (*Totals, error)
}
