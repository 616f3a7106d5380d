package domain

import "time"

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Nickname    string    `json:"nickname"`
	Avatar      string    `json:"avatar,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries the confirm-password field checked locally before
// any network call is made.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Nickname        string `json:"nickname"`
}

// AuthGrant is the server's answer to a successful login or register call.
// ExpiresAt is a unix timestamp; zero means the server left expiry to the
// token itself.
type AuthGrant struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	User      User   `json:"user"`
}

// Profile is the mutable subset of a user record.
type Profile struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}
