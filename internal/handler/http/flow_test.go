package http

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prjrating/sellerrating/internal/domain"
)

// newStoreFixture wires the router over an in-memory store so a sequence of
// requests observes the state left by the previous ones.
func newStoreFixture(t *testing.T) (*apiFixture, *memStore) {
	t.Helper()
	store := newMemStore()
	f := &apiFixture{jwt: newTestJWT()}
	f.router, f.redis = newTestRouter(t, store.Users(), store.Comments(), store.Ratings(), store.Objects(), f.jwt)
	return f, store
}

func seedUser(t *testing.T, store *memStore, u *domain.User) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), u))
}

func loginStatus(f *apiFixture, email, password string) int {
	return f.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "").Code
}

func TestFlow_ResetPasswordReplacesOldPassword(t *testing.T) {
	f, store := newStoreFixture(t)
	u := seller(sellerID, true)
	u.PasswordHash = hashed(t, "Secret123")
	seedUser(t, store, u)

	require.Equal(t, http.StatusOK, loginStatus(f, u.Email, "Secret123"))

	rec := f.do(http.MethodPost, "/api/auth/forgot_password", `{"email":"`+u.Email+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	const prefix = "ratingsystem:code:password_reset:"
	var code string
	for _, k := range f.redis.Keys() {
		if strings.HasPrefix(k, prefix) {
			code = strings.TrimPrefix(k, prefix)
		}
	}
	require.NotEmpty(t, code, "reset code not stored")

	rec = f.do(http.MethodPost, "/api/auth/reset", `{"code":"`+code+`","new_password":"Better456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusOK, loginStatus(f, u.Email, "Better456"))
	assert.Equal(t, http.StatusUnauthorized, loginStatus(f, u.Email, "Secret123"))

	rec = f.do(http.MethodPost, "/api/auth/reset", `{"code":"`+code+`","new_password":"Another789"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusOK, loginStatus(f, u.Email, "Better456"))
}

func TestFlow_DeleteSellerRemovesCommentsObjectsAndRatings(t *testing.T) {
	f, store := newStoreFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	seedUser(t, store, seller(sellerID, true))
	seedUser(t, store, seller(otherID, true))
	for _, c := range []domain.Comment{
		{ID: commID, SellerID: sellerID, Message: "Great trade", CreatedAt: now},
		{ID: "f0e1d2c3-b4a5-4968-8776-655443322110", SellerID: otherID, Message: "Slow reply", CreatedAt: now},
	} {
		require.NoError(t, store.Comments().Create(ctx, &c))
		require.NoError(t, store.Comments().Review(ctx, c.ID, true, &domain.Rating{ID: "r-" + c.ID, CommentID: c.ID, RatingValue: 4}))
	}
	require.NoError(t, store.Objects().Create(ctx, &domain.GameObject{
		ID: objectID, UserID: sellerID, Title: "Arcana Bundle", CreatedAt: now, UpdatedAt: now,
	}))

	rec := f.do(http.MethodDelete, "/api/users/"+sellerID, "", f.token(t, adminID, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/comments/sellers/"+sellerID+"/comments", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(http.MethodGet, "/api/game-objects/user/"+sellerID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(http.MethodGet, "/api/game-objects/"+objectID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(http.MethodGet, "/api/comments/"+commID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	comments, err := store.Comments().ListBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	objects, err := store.Objects().ListByUser(ctx, sellerID)
	require.NoError(t, err)
	assert.Empty(t, objects)
	rated, err := store.Ratings().ExistsForComment(ctx, commID)
	require.NoError(t, err)
	assert.False(t, rated)

	// The other seller is untouched.
	rec = f.do(http.MethodGet, "/api/comments/sellers/"+otherID+"/comments", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataList(t, decodeResponse(t, rec)), 1)
}

func TestFlow_SellerRatingIsMeanOfApprovedRatings(t *testing.T) {
	f, store := newStoreFixture(t)
	seedUser(t, store, seller(sellerID, true))
	admin := f.token(t, adminID, domain.RoleAdmin)

	postComment := func(msg string) string {
		t.Helper()
		rec := f.do(http.MethodPost, "/api/comments/sellers/"+sellerID, `{"message":"`+msg+`"}`, "")
		require.Equal(t, http.StatusCreated, rec.Code)
		return dataMap(t, decodeResponse(t, rec))["id"].(string)
	}
	topRating := func() float64 {
		t.Helper()
		rec := f.do(http.MethodGet, "/api/users/top", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		items := dataMap(t, decodeResponse(t, rec))["items"].([]any)
		require.Len(t, items, 1)
		return items[0].(map[string]any)["rating"].(float64)
	}

	first, second, pending := postComment("Item as described"), postComment("Quick delivery"), postComment("Still waiting")
	assert.InDelta(t, 0, topRating(), 1e-9)

	rec := f.do(http.MethodPatch, "/api/admin/comments/"+first+"/approve?rating_value=4", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPatch, "/api/admin/comments/"+second+"/approve?rating_value=5", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.InDelta(t, 4.5, topRating(), 1e-9)

	// An unapproved comment contributes nothing; declining an approved one
	// removes its rating from the average.
	rec = f.do(http.MethodPatch, "/api/admin/comments/"+pending+"/decline", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 4.5, topRating(), 1e-9)

	rec = f.do(http.MethodPatch, "/api/admin/comments/"+second+"/decline", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 4, topRating(), 1e-9)
}
