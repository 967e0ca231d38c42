package mailing

import (
	"time"

	useCaseMailing "go-mailing-api/src/application/usecases/mailing"
	domainMailing "go-mailing-api/src/domain/mailing"
)

type NewMailingRequest struct {
	MessageID    int    `json:"messageId" binding:"required,gt=0"`
	RecipientIDs []int  `json:"recipientIds" binding:"required,min=1"`
	Frequency    string `json:"frequency" binding:"omitempty,oneof=minutely daily weekly monthly"`
}

func (r NewMailingRequest) toInput() useCaseMailing.MailingInput {
	input := useCaseMailing.MailingInput{
		MessageID:    &r.MessageID,
		RecipientIDs: r.RecipientIDs,
	}
	if r.Frequency != "" {
		frequency := domainMailing.Frequency(r.Frequency)
		input.Frequency = &frequency
	}
	return input
}

// UpdateMailingRequest leaves absent fields unchanged; an explicit empty recipientIds is rejected
type UpdateMailingRequest struct {
	MessageID    *int    `json:"messageId" binding:"omitempty,gt=0"`
	RecipientIDs []int   `json:"recipientIds"`
	Frequency    *string `json:"frequency" binding:"omitempty,oneof=minutely daily weekly monthly"`
}

func (r UpdateMailingRequest) toInput() useCaseMailing.MailingInput {
	input := useCaseMailing.MailingInput{
		MessageID:    r.MessageID,
		RecipientIDs: r.RecipientIDs,
	}
	if r.Frequency != nil {
		frequency := domainMailing.Frequency(*r.Frequency)
		input.Frequency = &frequency
	}
	return input
}

type MessageSummary struct {
	ID      int    `json:"id"`
	Subject string `json:"subject"`
}

type RecipientSummary struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type ResponseMailing struct {
	ID         int                `json:"id"`
	Status     string             `json:"status"`
	StartTime  *time.Time         `json:"startTime"`
	EndTime    *time.Time         `json:"endTime"`
	Frequency  string             `json:"frequency"`
	MessageID  int                `json:"messageId"`
	Message    *MessageSummary    `json:"message,omitempty"`
	Recipients []RecipientSummary `json:"recipients"`
	OwnerID    int                `json:"ownerId"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type StatsResponse struct {
	CountMailing          int64 `json:"countMailing"`
	CountActiveMailing    int64 `json:"countActiveMailing"`
	CountUniqueRecipients int64 `json:"countUniqueRecipients"`
}

func domainToResponseMapper(m *domainMailing.Mailing) ResponseMailing {
	response := ResponseMailing{
		ID:         m.ID,
		Status:     string(m.Status),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Frequency:  string(m.Frequency),
		MessageID:  m.MessageID,
		Recipients: make([]RecipientSummary, 0, len(m.Recipients)),
		OwnerID:    m.OwnerID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Message != nil {
		response.Message = &MessageSummary{ID: m.Message.ID, Subject: m.Message.Subject}
	}
	for _, r := range m.Recipients {
		response.Recipients = append(response.Recipients, RecipientSummary{ID: r.ID, Email: r.Email, FullName: r.FullName})
	}
	return response
}
