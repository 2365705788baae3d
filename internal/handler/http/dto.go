package http

import (
	"time"

	"github.com/prjrating/sellerrating/internal/domain"
)

// --- Response DTOs ---

// UserResponse is the public view of a user. The password hash never leaves
// the service.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerResponse is a seller together with its average rating.
type SellerResponse struct {
	UserResponse
	Rating float64 `json:"rating"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Message   string    `json:"message"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingResponse is the public view of a rating.
type RatingResponse struct {
	ID          string `json:"id"`
	CommentID   string `json:"comment_id"`
	RatingValue int    `json:"rating_value"`
}

// ReviewResponse reports the outcome of a comment review. Rating is only set
// for approvals.
type ReviewResponse struct {
	CommentID string          `json:"comment_id"`
	Approved  bool            `json:"approved"`
	Rating    *RatingResponse `json:"rating,omitempty"`
}

// GameObjectResponse is the public view of a game object.
type GameObjectResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse carries the access token issued on login.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// TopSellersResponse is one page of the seller ranking.
type TopSellersResponse struct {
	Items []SellerResponse `json:"items"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// CheckCodeResponse reports whether a reset code is still usable.
type CheckCodeResponse struct {
	Valid bool `json:"valid"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role.String(),
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

func toSellerResponses(sellers []domain.SellerRating) []SellerResponse {
	out := make([]SellerResponse, len(sellers))
	for i := range sellers {
		out[i] = SellerResponse{
			UserResponse: toUserResponse(&sellers[i].Seller),
			Rating:       sellers[i].Rating,
		}
	}
	return out
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		SellerID:  c.SellerID,
		Message:   c.Message,
		Approved:  c.Approved,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = toCommentResponse(&comments[i])
	}
	return out
}

func toRatingResponse(r *domain.Rating) *RatingResponse {
	if r == nil {
		return nil
	}
	return &RatingResponse{ID: r.ID, CommentID: r.CommentID, RatingValue: r.RatingValue}
}

func toGameObjectResponse(o *domain.GameObject) GameObjectResponse {
	return GameObjectResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Title:     o.Title,
		Text:      o.Text,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toGameObjectResponses(objs []domain.GameObject) []GameObjectResponse {
	out := make([]GameObjectResponse, len(objs))
	for i := range objs {
		out[i] = toGameObjectResponse(&objs[i])
	}
	return out
}
