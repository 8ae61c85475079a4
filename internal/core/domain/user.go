package domain

import "time"

// User models a registered account. PasswordHash never leaves the store layer
// in a serialized form.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the only user shape returned to clients.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Public strips everything but the identity fields.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Claims are the identity facts carried by a session token.
type Claims struct {
	UserID   int64
	Username string
}

// Profile is the authenticated user's own view.
type Profile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	FavoritesCount int64     `json:"favorites_count"`
}
