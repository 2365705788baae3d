package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prjrating/sellerrating/internal/domain"
)

func gameObject(owner string) *domain.GameObject {
	return &domain.GameObject{ID: objectID, UserID: owner, Title: "Dota 2 account", Text: "Immortal rank"}
}

func TestGameObjectHandler_List(t *testing.T) {
	f := newAPIFixture(t)
	f.objects.On("List", mock.Anything).Return([]domain.GameObject{*gameObject(sellerID)}, nil)

	rec := f.do(http.MethodGet, "/api/game-objects", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataList(t, decodeResponse(t, rec)), 1)
}

func TestGameObjectHandler_Create_OwnerFromToken(t *testing.T) {
	f := newAPIFixture(t)
	f.users.On("GetByID", mock.Anything, sellerID).Return(seller(sellerID, true), nil)
	f.objects.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.GameObject) bool {
		return o.UserID == sellerID
	})).Return(nil)

	rec := f.do(http.MethodPost, "/api/game-objects", `{"title":"Dota 2 account","text":"Immortal rank"}`,
		f.token(t, sellerID, domain.RoleSeller))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, sellerID, dataMap(t, decodeResponse(t, rec))["user_id"])
}

func TestGameObjectHandler_Create_ForOtherUser(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/game-objects", `{"title":"x","user_id":"`+otherID+`"}`,
		f.token(t, sellerID, domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	f.users.On("GetByID", mock.Anything, otherID).Return(seller(otherID, true), nil)
	f.objects.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.GameObject) bool {
		return o.UserID == otherID
	})).Return(nil)

	rec = f.do(http.MethodPost, "/api/game-objects", `{"title":"x","user_id":"`+otherID+`"}`,
		f.token(t, adminID, domain.RoleAdmin))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGameObjectHandler_Update_NotOwner(t *testing.T) {
	f := newAPIFixture(t)
	f.objects.On("GetByID", mock.Anything, objectID).Return(gameObject(otherID), nil)

	rec := f.do(http.MethodPut, "/api/game-objects/"+objectID, `{"title":"mine now"}`,
		f.token(t, sellerID, domain.RoleSeller))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only modify your own game objects", decodeResponse(t, rec).Error.Message)
}

func TestGameObjectHandler_Update_Owner(t *testing.T) {
	f := newAPIFixture(t)
	f.objects.On("GetByID", mock.Anything, objectID).Return(gameObject(sellerID), nil)
	f.objects.On("Update", mock.Anything, mock.MatchedBy(func(o *domain.GameObject) bool {
		return o.Text == "Divine rank" && o.Title == "Dota 2 account"
	})).Return(nil)

	rec := f.do(http.MethodPut, "/api/game-objects/"+objectID, `{"text":"Divine rank"}`,
		f.token(t, sellerID, domain.RoleSeller))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGameObjectHandler_Delete_Admin(t *testing.T) {
	f := newAPIFixture(t)
	f.objects.On("Delete", mock.Anything, objectID).Return(nil)

	rec := f.do(http.MethodDelete, "/api/game-objects/"+objectID, "", f.token(t, adminID, domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.objects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGameObjectHandler_ListByUser(t *testing.T) {
	f := newAPIFixture(t)
	f.users.On("GetByID", mock.Anything, sellerID).Return(seller(sellerID, true), nil)
	f.objects.On("ListByUser", mock.Anything, sellerID).Return([]domain.GameObject{*gameObject(sellerID)}, nil)

	rec := f.do(http.MethodGet, "/api/game-objects/user/"+sellerID, "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
