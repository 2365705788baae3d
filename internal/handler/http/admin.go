package http

import (
	"log/slog"
	"net/http"

	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/httputil"
)

// AdminHandler handles the moderation endpoints under /api/admin.
type AdminHandler struct {
	admin    *service.AdminService
	comments *CommentHandler
	ratings  *service.RatingService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler. Comment reviews are
// delegated to comments.
func NewAdminHandler(admin *service.AdminService, comments *CommentHandler, ratings *service.RatingService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, comments: comments, ratings: ratings, logger: logger}
}

// CreateRatingRequest is the JSON request body for rating an approved comment.
type CreateRatingRequest struct {
	CommentID   string `json:"comment_id" validate:"required,uuid"`
	RatingValue int    `json:"rating_value" validate:"required,gte=1,lte=5"`
}

// CreateRating handles POST /api/admin/ratings
func (h *AdminHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var req CreateRatingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rating, err := h.ratings.Create(r.Context(), req.CommentID, req.RatingValue)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, toRatingResponse(rating))
}

// PendingComments handles GET /api/admin/comments/pending
func (h *AdminHandler) PendingComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.service.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCommentResponses(comments))
}

// ApproveComment handles PATCH /api/admin/comments/{id}/approve?rating_value=
func (h *AdminHandler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rating, ok := queryInt(w, r, "rating_value")
	if !ok {
		return
	}

	h.comments.review(w, r, id, true, rating)
}

// DeclineComment handles PATCH /api/admin/comments/{id}/decline
func (h *AdminHandler) DeclineComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.comments.review(w, r, id, false, nil)
}

// PendingSellers handles GET /api/admin/sellers/pending
func (h *AdminHandler) PendingSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.admin.PendingSellers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toSellerResponses(sellers))
}

// ApproveSeller handles PATCH /api/admin/sellers/{id}/approve
func (h *AdminHandler) ApproveSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.admin.ApproveSeller(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toUserResponse(user))
}

// DeclineSeller handles DELETE /api/admin/sellers/{id}/decline
func (h *AdminHandler) DeclineSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.admin.DeclineSeller(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Seller declined")
}
