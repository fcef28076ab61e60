package user

import (
	"time"
)

// User represents a registered account. Passwords are stored and compared
// verbatim; credential hashing is out of scope for this service.
type User struct {
	Username  string `gorm:"primaryKey;type:text"`
	Password  string `gorm:"not null;type:text"`
	CreatedAt time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Session is the authenticated state carried by a session token: who the
// user is and, optionally, which room they are currently in.
type Session struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}
