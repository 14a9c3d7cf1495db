package models

import (
	"time"
)

// User is an account known to the mock backend. The client never sees it;
// it only sends the bearer token.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
