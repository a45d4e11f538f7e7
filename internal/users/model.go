package users

import "time"

// User is a dashboard account established on first Google sign-in. Role
// gates access to scraper operations.
type User struct {
	ID          string     `json:"id"`
	GoogleSub   string     `json:"-"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
