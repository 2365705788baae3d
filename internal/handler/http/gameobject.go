package http

import (
	"log/slog"
	"net/http"

	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/pkg/httputil"
	"github.com/prjrating/sellerrating/pkg/middleware"
)

// GameObjectHandler handles HTTP requests for game object endpoints.
type GameObjectHandler struct {
	service *service.GameObjectService
	logger  *slog.Logger
}

// NewGameObjectHandler creates a new game object HTTP handler.
func NewGameObjectHandler(svc *service.GameObjectService, logger *slog.Logger) *GameObjectHandler {
	return &GameObjectHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateGameObjectRequest is the JSON request body for listing a game object.
// UserID defaults to the caller; only admins may set another owner.
type CreateGameObjectRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Text   string `json:"text" validate:"omitempty,max=10000"`
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}

// UpdateGameObjectRequest is the JSON request body for a partial update.
type UpdateGameObjectRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=255"`
	Text  *string `json:"text" validate:"omitempty,max=10000"`
}

// --- Handlers ---

// List handles GET /api/game-objects
func (h *GameObjectHandler) List(w http.ResponseWriter, r *http.Request) {
	objs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toGameObjectResponses(objs))
}

// Get handles GET /api/game-objects/{id}
func (h *GameObjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	obj, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toGameObjectResponse(obj))
}

// ListByUser handles GET /api/game-objects/user/{userId}
func (h *GameObjectHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	objs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toGameObjectResponses(objs))
}

// Create handles POST /api/game-objects
func (h *GameObjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameObjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	owner := middleware.UserIDFromContext(ctx)
	if req.UserID != "" && req.UserID != owner {
		if !middleware.IsAdmin(ctx) {
			writeNotOwner(w, r)
			return
		}
		owner = req.UserID
	}

	obj, err := h.service.Create(ctx, service.CreateGameObjectInput{
		UserID: owner,
		Title:  req.Title,
		Text:   req.Text,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, toGameObjectResponse(obj))
}

// Update handles PUT /api/game-objects/{id}
func (h *GameObjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateGameObjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.authorizeOwner(w, r, id) {
		return
	}

	obj, err := h.service.Update(r.Context(), id, service.UpdateGameObjectInput{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toGameObjectResponse(obj))
}

// Delete handles DELETE /api/game-objects/{id}
func (h *GameObjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.authorizeOwner(w, r, id) {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Game object deleted")
}

// authorizeOwner lets admins and the object's owner through.
func (h *GameObjectHandler) authorizeOwner(w http.ResponseWriter, r *http.Request, id string) bool {
	ctx := r.Context()
	if middleware.IsAdmin(ctx) {
		return true
	}

	obj, err := h.service.GetByID(ctx, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	if obj.UserID != middleware.UserIDFromContext(ctx) {
		writeNotOwner(w, r)
		return false
	}
	return true
}

func writeNotOwner(w http.ResponseWriter, r *http.Request) {
	httputil.WriteErrorCode(w, r, http.StatusForbidden, "FORBIDDEN", "You can only modify your own game objects")
}
