package models

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user account.
// The Password field stores the bcrypt hash and is never serialized to JSON.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string    `json:"-" gorm:"type:varchar(255)"`
	Phone        string    `json:"phone,omitempty" gorm:"type:varchar(30)"`
	City         string    `json:"city,omitempty" gorm:"type:varchar(100)"`
	State        string    `json:"state,omitempty" gorm:"type:varchar(100)"`
	Country      string    `json:"country,omitempty" gorm:"type:varchar(100)"`
	Pincode      string    `json:"pincode,omitempty" gorm:"type:varchar(20)"`
	Address      string    `json:"address,omitempty" gorm:"type:varchar(500)"`
	ProfileImage string    `json:"profile_image,omitempty" gorm:"type:varchar(255)"`
	Role         string    `json:"role" gorm:"type:varchar(10);default:user" validate:"omitempty,oneof=user admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
