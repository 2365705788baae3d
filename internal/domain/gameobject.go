package domain

import "time"

// GameObject is an in-game item listed by a user.
type GameObject struct {
	ID        string
	UserID    string
	Title     string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
