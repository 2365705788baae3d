package domain

import "time"

// User is a registered account. Sellers are users with RoleSeller.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Approved     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSeller reports whether the user has the seller role.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// SellerRating pairs a seller with the average of its approved ratings.
type SellerRating struct {
	Seller User
	Rating float64
}
