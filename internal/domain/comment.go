package domain

import "time"

// Comment is feedback about a seller. It stays invisible to ratings until an
// admin approves it.
type Comment struct {
	ID        string
	SellerID  string
	Message   string
	Approved  bool
	CreatedAt time.Time
}

// Rating scores an approved comment. Each comment has at most one rating.
type Rating struct {
	ID          string
	CommentID   string
	RatingValue int
}

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether v is within MinRating..MaxRating.
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
