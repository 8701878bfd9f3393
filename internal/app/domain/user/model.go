package user

import "time"

// User is one authenticated account. Users are created only by the startup
// bootstrap and are immutable afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public is the subset of User safe to return to clients.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public returns the client-safe view of the user.
func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username}
}
