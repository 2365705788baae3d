package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prjrating/sellerrating/internal/domain"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/admin/sellers/pending", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/admin/sellers/pending", "", f.token(t, sellerID, domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminHandler_PendingSellers(t *testing.T) {
	f := newAPIFixture(t)
	f.users.On("ListByRoleAndApproved", mock.Anything, domain.RoleSeller, false).
		Return([]domain.User{*seller(sellerID, false)}, nil)
	f.ratings.On("SellerAverages", mock.Anything, []string{sellerID}).Return(map[string]float64{sellerID: 0}, nil)

	rec := f.do(http.MethodGet, "/api/admin/sellers/pending", "", f.token(t, adminID, domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	list := dataList(t, decodeResponse(t, rec))
	require.Len(t, list, 1)
	assert.EqualValues(t, 0, list[0].(map[string]any)["rating"])
}

func TestAdminHandler_ApproveSeller(t *testing.T) {
	f := newAPIFixture(t)
	f.users.On("GetByID", mock.Anything, sellerID).Return(seller(sellerID, false), nil)
	f.users.On("SetApproved", mock.Anything, sellerID, true).Return(nil)

	rec := f.do(http.MethodPatch, "/api/admin/sellers/"+sellerID+"/approve", "", f.token(t, adminID, domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, dataMap(t, decodeResponse(t, rec))["approved"])
}

func TestAdminHandler_DeclineSeller_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	f.users.On("Delete", mock.Anything, sellerID).Return(apperrors.NotFound("User", sellerID))

	rec := f.do(http.MethodDelete, "/api/admin/sellers/"+sellerID+"/decline", "", f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_PendingComments(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("ListPending", mock.Anything).Return([]domain.Comment{*comment(false)}, nil)

	rec := f.do(http.MethodGet, "/api/admin/comments/pending", "", f.token(t, adminID, domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	list := dataList(t, decodeResponse(t, rec))
	require.Len(t, list, 1)
	assert.Equal(t, sellerID, list[0].(map[string]any)["seller_id"])
}

func TestAdminHandler_ApproveComment_RequiresRating(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPatch, "/api/admin/comments/"+commID+"/approve", "", f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Rating value must be provided when approving a comment.", decodeResponse(t, rec).Error.Message)
}

func TestAdminHandler_ApproveComment(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("GetByID", mock.Anything, commID).Return(comment(false), nil)
	f.comments.On("Review", mock.Anything, commID, true, mock.MatchedBy(func(r *domain.Rating) bool {
		return r != nil && r.RatingValue == 4
	})).Return(nil)

	rec := f.do(http.MethodPatch, "/api/admin/comments/"+commID+"/approve?rating_value=4", "", f.token(t, adminID, domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, decodeResponse(t, rec))
	assert.Equal(t, true, data["approved"])
	assert.EqualValues(t, 4, data["rating"].(map[string]any)["rating_value"])
}

func TestAdminHandler_ApproveComment_AlreadyRated(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("GetByID", mock.Anything, commID).Return(comment(true), nil)
	f.comments.On("Review", mock.Anything, commID, true, mock.Anything).
		Return(apperrors.AlreadyExists("Rating already exists for comment"))

	rec := f.do(http.MethodPatch, "/api/admin/comments/"+commID+"/approve?rating_value=4", "", f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminHandler_DeclineComment(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("GetByID", mock.Anything, commID).Return(comment(false), nil)
	f.comments.On("Review", mock.Anything, commID, false, (*domain.Rating)(nil)).Return(nil)

	rec := f.do(http.MethodPatch, "/api/admin/comments/"+commID+"/decline", "", f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminHandler_CreateRating(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("GetByID", mock.Anything, commID).Return(comment(true), nil)
	f.ratings.On("ExistsForComment", mock.Anything, commID).Return(false, nil)
	f.ratings.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := f.do(http.MethodPost, "/api/admin/ratings", `{"comment_id":"`+commID+`","rating_value":5}`, f.token(t, adminID, domain.RoleAdmin))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 5, dataMap(t, decodeResponse(t, rec))["rating_value"])
}

func TestAdminHandler_CreateRating_OutOfRange(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/admin/ratings", `{"comment_id":"`+commID+`","rating_value":7}`, f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeResponse(t, rec).Error.Code)
}

func TestAdminHandler_CreateRating_UnapprovedComment(t *testing.T) {
	f := newAPIFixture(t)
	f.comments.On("GetByID", mock.Anything, commID).Return(comment(false), nil)

	rec := f.do(http.MethodPost, "/api/admin/ratings", `{"comment_id":"`+commID+`","rating_value":3}`, f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
