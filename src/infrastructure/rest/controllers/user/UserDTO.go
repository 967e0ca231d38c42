package user

import (
	"path"
	"time"

	domainUser "go-mailing-api/src/domain/user"
)

// MediaURLPrefix is where uploaded files are served from
const MediaURLPrefix = "/media/"

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=191"`
	Password    string `json:"password" binding:"required,min=8"`
	Password2   string `json:"password2" binding:"required,eqfield=Password"`
	FirstName   string `json:"firstName" binding:"max=150"`
	LastName    string `json:"lastName" binding:"max=150"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,digits,max=35"`
	Area        string `json:"area" binding:"max=100"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SetPasswordRequest struct {
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
}

type UpdateProfileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=191"`
	FirstName   *string `json:"firstName" binding:"omitempty,max=150"`
	LastName    *string `json:"lastName" binding:"omitempty,max=150"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,digits,max=35"`
	Area        *string `json:"area" binding:"omitempty,max=100"`
}

func (r UpdateProfileRequest) toMap() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.FirstName != nil {
		out["firstName"] = *r.FirstName
	}
	if r.LastName != nil {
		out["lastName"] = *r.LastName
	}
	if r.PhoneNumber != nil {
		out["phoneNumber"] = *r.PhoneNumber
	}
	if r.Area != nil {
		out["area"] = *r.Area
	}
	return out
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type ResponseUser struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Avatar      string    `json:"avatar,omitempty"`
	PhoneNumber string    `json:"phoneNumber"`
	Area        string    `json:"area"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	IsStaff     bool      `json:"isStaff"`
	CreatedAt   time.Time `json:"createdAt"`
}

func domainToResponseMapper(u *domainUser.User) ResponseUser {
	response := ResponseUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Area:        u.Area,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		CreatedAt:   u.CreatedAt,
	}
	if u.Avatar != "" {
		response.Avatar = path.Join(MediaURLPrefix, u.Avatar)
	}
	return response
}
