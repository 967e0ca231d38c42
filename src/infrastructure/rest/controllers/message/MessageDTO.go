package message

import (
	"time"

	domainMessage "go-mailing-api/src/domain/message"
)

type NewMessageRequest struct {
	Subject string `json:"subject" binding:"required,max=150"`
	Body    string `json:"body" binding:"required"`
}

type UpdateMessageRequest struct {
	Subject *string `json:"subject" binding:"omitempty,min=1,max=150"`
	Body    *string `json:"body" binding:"omitempty,min=1"`
}

func (r UpdateMessageRequest) toMap() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Subject != nil {
		out["subject"] = *r.Subject
	}
	if r.Body != nil {
		out["body"] = *r.Body
	}
	return out
}

type ResponseMessage struct {
	ID        int       `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	OwnerID   *int      `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func domainToResponseMapper(m *domainMessage.Message) ResponseMessage {
	return ResponseMessage{
		ID:        m.ID,
		Subject:   m.Subject,
		Body:      m.Body,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
