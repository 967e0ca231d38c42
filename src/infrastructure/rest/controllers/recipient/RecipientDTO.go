package recipient

import (
	"time"

	domainRecipient "go-mailing-api/src/domain/recipient"
)

type NewRecipientRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	FullName string `json:"fullName" binding:"required,max=150"`
	Comment  string `json:"comment"`
}

// UpdateRecipientRequest leaves absent fields unchanged
type UpdateRecipientRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	FullName *string `json:"fullName" binding:"omitempty,min=1,max=150"`
	Comment  *string `json:"comment"`
}

func (r UpdateRecipientRequest) toMap() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.FullName != nil {
		out["fullName"] = *r.FullName
	}
	if r.Comment != nil {
		out["comment"] = *r.Comment
	}
	return out
}

type ResponseRecipient struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Comment   string    `json:"comment"`
	OwnerID   *int      `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func domainToResponseMapper(r *domainRecipient.Recipient) ResponseRecipient {
	return ResponseRecipient{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Comment:   r.Comment,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
