package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/httputil"
	"github.com/prjrating/sellerrating/pkg/middleware"
	"github.com/prjrating/sellerrating/pkg/pagination"
)

// UserHandler handles HTTP requests for user and seller listing endpoints.
type UserHandler struct {
	users       *service.UserService
	admin       *service.AdminService
	topPageSize int
	logger      *slog.Logger
}

// NewUserHandler creates a new user HTTP handler. topPageSize is the default
// page size of the seller ranking.
func NewUserHandler(users *service.UserService, admin *service.AdminService, topPageSize int, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, admin: admin, topPageSize: topPageSize, logger: logger}
}

// UpdateUserRequest is the JSON request body for a partial user update.
// Role and approved are honoured for admins only.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty"`
	Role      *string `json:"role" validate:"omitempty"`
	Approved  *bool   `json:"approved"`
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toUserResponses(users))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toUserResponse(user))
}

// ListByRole handles GET /api/users/role/{role}
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid role")
		return
	}

	users, err := h.users.ListByRole(r.Context(), role)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toUserResponses(users))
}

// TopSellers handles GET /api/users/top?page=&size=
func (h *UserHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r, h.topPageSize)

	sellers, err := h.admin.TopSellers(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, TopSellersResponse{
		Items: toSellerResponses(sellers),
		Page:  p.Page,
		Size:  p.PerPage,
	})
}

// FilterSellers handles GET /api/users/sellers/filter?game_title=&min_rating=&max_rating=
func (h *UserHandler) FilterSellers(w http.ResponseWriter, r *http.Request) {
	var filter service.SellerFilter
	if title := r.URL.Query().Get("game_title"); title != "" {
		filter.GameTitle = &title
	}

	var ok bool
	if filter.MinRating, ok = queryFloat(w, r, "min_rating"); !ok {
		return
	}
	if filter.MaxRating, ok = queryFloat(w, r, "max_rating"); !ok {
		return
	}

	sellers, err := h.admin.FilterSellers(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toSellerResponses(sellers))
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Approved:  req.Approved,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid role")
			return
		}
		input.Role = &role
	}

	user, err := h.users.Update(r.Context(), id, input, middleware.IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "User deleted")
}
