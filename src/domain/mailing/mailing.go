package mailing

import (
	"time"

	"go-mailing-api/src/domain"
	domainMessage "go-mailing-api/src/domain/message"
	domainRecipient "go-mailing-api/src/domain/recipient"
)

type Status string

const (
	StatusCreated  Status = "created"
	StatusStarted  Status = "started"
	StatusFinished Status = "finished"
)

func (s Status) IsValid() bool {
	return s == StatusCreated || s == StatusStarted || s == StatusFinished
}

type Frequency string

const (
	FrequencyMinutely Frequency = "minutely"
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMinutely, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Mailing links one message to a set of recipients
type Mailing struct {
	ID         int
	Status     Status
	StartTime  *time.Time
	EndTime    *time.Time
	Frequency  Frequency
	MessageID  int
	Message    *domainMessage.Message
	Recipients []domainRecipient.Recipient
	OwnerID    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecipientEmails returns the addresses of the loaded recipients in order
func (m *Mailing) RecipientEmails() []string {
	emails := make([]string, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		emails = append(emails, r.Email)
	}
	return emails
}

type SearchResultMailing = domain.PaginatedResult[Mailing]

// Stats are the counters shown on the dashboard
type Stats struct {
	CountMailing          int64
	CountActiveMailing    int64
	CountUniqueRecipients int64
}

type IMailingService interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*SearchResultMailing, error)
	GetByID(id int) (*Mailing, error)
	Create(mailing *Mailing, recipientIDs []int) (*Mailing, error)
	Update(id int, mailingMap map[string]interface{}, recipientIDs []int) (*Mailing, error)
	Delete(id int) error
	GetRecipientEmails(id int) ([]string, error)
	Count(ownerID *int, status *Status) (int64, error)
}
