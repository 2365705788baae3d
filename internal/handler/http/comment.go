package http

import (
	"log/slog"
	"net/http"

	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/httputil"
)

// CommentHandler handles HTTP requests for seller comments.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CommentRequest is the JSON request body for creating or editing a comment.
type CommentRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// SellerRequestRequest is the JSON request body for commenting on a seller
// that has no account yet. seller_description and game_id are accepted for
// compatibility and not stored.
type SellerRequestRequest struct {
	Message           string `json:"message" validate:"required,max=5000"`
	SellerFirstName   string `json:"seller_first_name" validate:"required,max=100"`
	SellerLastName    string `json:"seller_last_name" validate:"required,max=100"`
	SellerEmail       string `json:"seller_email" validate:"required,email"`
	SellerDescription string `json:"seller_description" validate:"omitempty,max=2000"`
	GameID            string `json:"game_id" validate:"omitempty"`
}

// --- Handlers ---

// Create handles POST /api/comments/sellers/{sellerId}
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathID(w, r, "sellerId")
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.service.Create(r.Context(), sellerID, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, toCommentResponse(comment))
}

// CreateWithSeller handles POST /api/comments/sellers
func (h *CommentHandler) CreateWithSeller(w http.ResponseWriter, r *http.Request) {
	var req SellerRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.service.CreateWithSellerRequest(r.Context(), service.SellerRequestInput{
		Message:           req.Message,
		SellerFirstName:   req.SellerFirstName,
		SellerLastName:    req.SellerLastName,
		SellerEmail:       req.SellerEmail,
		SellerDescription: req.SellerDescription,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, toCommentResponse(comment))
}

// ListBySeller handles GET /api/comments/sellers/{sellerId}/comments
func (h *CommentHandler) ListBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathID(w, r, "sellerId")
	if !ok {
		return
	}

	comments, err := h.service.ListBySeller(r.Context(), sellerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCommentResponses(comments))
}

// Get handles GET /api/comments/{id}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCommentResponse(comment))
}

// Update handles PUT /api/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.service.Update(r.Context(), id, req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /api/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Comment deleted")
}

// SetApproval handles PATCH /api/comments/{id}/approve?approved=&rating_value=
func (h *CommentHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	approved, ok := queryBool(w, r, "approved")
	if !ok {
		return
	}
	rating, ok := queryInt(w, r, "rating_value")
	if !ok {
		return
	}

	h.review(w, r, id, approved, rating)
}

func (h *CommentHandler) review(w http.ResponseWriter, r *http.Request, id string, approved bool, rating *int) {
	created, err := h.service.Review(r.Context(), id, approved, rating)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ReviewResponse{
		CommentID: id,
		Approved:  approved,
		Rating:    toRatingResponse(created),
	})
}
