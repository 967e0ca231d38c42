package user

import (
	"time"

	"go-mailing-api/src/domain"
)

// User is an account that owns recipients, messages, mailings and attempts
type User struct {
	ID                int
	Email             string
	FirstName         string
	LastName          string
	Avatar            string
	PhoneNumber       string
	Area              string
	VerificationToken string
	ResetToken        string
	// ResetTokenExpiresAt is nil when no reset is pending
	ResetTokenExpiresAt *time.Time
	Role                string
	IsActive            bool
	IsStaff             bool
	HashPassword        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type SearchResultUser = domain.PaginatedResult[User]

type IUserService interface {
	GetByID(id int) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByVerificationToken(token string) (*User, error)
	GetByResetToken(token string) (*User, error)
	Create(user *User) (*User, error)
	Update(id int, userMap map[string]interface{}) (*User, error)
	Delete(id int) error
	ListNonStaff(filters domain.DataFilters) (*SearchResultUser, error)
}

// FullName joins the first and last name
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RegisterInput carries the fields of a self-registration
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Area        string
}
