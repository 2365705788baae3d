package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/notification"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

type adminFixture struct {
	svc      *AdminService
	users    *mockUserRepository
	ratings  *mockRatingRepository
	notifier *mockNotifier
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:    new(mockUserRepository),
		ratings:  new(mockRatingRepository),
		notifier: new(mockNotifier),
	}
	f.svc = NewAdminService(f.users, f.ratings, f.notifier, 10, newTestLogger())
	t.Cleanup(func() {
		f.users.AssertExpectations(t)
		f.ratings.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})
	return f
}

func sellers(ids ...string) []domain.User {
	out := make([]domain.User, len(ids))
	for i, id := range ids {
		out[i] = domain.User{ID: id, Role: domain.RoleSeller}
	}
	return out
}

func sellerIDs(rs []domain.SellerRating) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.Seller.ID
	}
	return ids
}

// ---------------------------------------------------------------------------
// Moderation
// ---------------------------------------------------------------------------

func TestAdminService_PendingSellers(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListByRoleAndApproved", ctx, domain.RoleSeller, false).Return(sellers("a", "b"), nil)
	f.ratings.On("SellerAverages", ctx, []string{"a", "b"}).Return(map[string]float64{"a": 3, "b": 0}, nil)

	got, err := f.svc.PendingSellers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 3.0, got[0].Rating, 1e-9)
	assert.Zero(t, got[1].Rating)
}

func TestAdminService_ApproveSeller(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	seller := sampleSeller()
	seller.Approved = false

	f.users.On("GetByID", ctx, seller.ID).Return(seller, nil)
	f.users.On("SetApproved", ctx, seller.ID, true).Return(nil)
	f.notifier.On("Notify", ctx, notification.Message{
		Kind:      notification.KindSellerApproved,
		Recipient: seller.Email,
	}).Return(nil)

	got, err := f.svc.ApproveSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)
}

func TestAdminService_ApproveSeller_NotifyFailureIsNotFatal(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	seller := sampleSeller()

	f.users.On("GetByID", ctx, seller.ID).Return(seller, nil)
	f.users.On("SetApproved", ctx, seller.ID, true).Return(nil)
	f.notifier.On("Notify", ctx, mock.Anything).Return(errors.New("smtp down"))

	_, err := f.svc.ApproveSeller(ctx, seller.ID)
	assert.NoError(t, err)
}

func TestAdminService_ApproveSeller_NotFound(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("User", "missing"))

	_, err := f.svc.ApproveSeller(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestAdminService_DeclineSeller(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("Delete", ctx, "seller-1").Return(nil)

	require.NoError(t, f.svc.DeclineSeller(ctx, "seller-1"))
}

// ---------------------------------------------------------------------------
// Rankings
// ---------------------------------------------------------------------------

func TestAdminService_TopSellers_SortsPageStably(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersPage", ctx, 4, 4).Return(sellers("e", "f", "g", "h"), nil)
	f.ratings.On("SellerAverages", ctx, []string{"e", "f", "g", "h"}).
		Return(map[string]float64{"e": 3, "f": 4.5, "g": 3, "h": 0}, nil)

	got, err := f.svc.TopSellers(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "e", "g", "h"}, sellerIDs(got))
}

func TestAdminService_TopSellers_Defaults(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersPage", ctx, 10, 0).Return([]domain.User{}, nil)
	f.ratings.On("SellerAverages", ctx, []string{}).Return(map[string]float64{}, nil)

	got, err := f.svc.TopSellers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdminService_TopSellers_ClampsSize(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersPage", ctx, 100, 0).Return([]domain.User{}, nil)
	f.ratings.On("SellerAverages", ctx, []string{}).Return(map[string]float64{}, nil)

	_, err := f.svc.TopSellers(ctx, 1, 5000)
	require.NoError(t, err)
}

func TestAdminService_TopSellers_PagePastLimitIsEmpty(t *testing.T) {
	f := newAdminFixture(t)

	got, err := f.svc.TopSellers(context.Background(), math.MaxInt, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
	f.users.AssertNotCalled(t, "ListSellersPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_FilterSellers_ByRange(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersByGameTitle", ctx, "dota").Return(sellers("a", "b", "c"), nil)
	f.ratings.On("SellerAverages", ctx, []string{"a", "b", "c"}).
		Return(map[string]float64{"a": 2, "b": 4, "c": 5}, nil)

	got, err := f.svc.FilterSellers(ctx, SellerFilter{
		GameTitle: ptr("dota"),
		MinRating: ptr(3.0),
		MaxRating: ptr(5.0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, sellerIDs(got))
}

func TestAdminService_FilterSellers_SingleBoundIgnored(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersByGameTitle", ctx, "").Return(sellers("a", "b"), nil)
	f.ratings.On("SellerAverages", ctx, []string{"a", "b"}).
		Return(map[string]float64{"a": 1, "b": 5}, nil)

	got, err := f.svc.FilterSellers(ctx, SellerFilter{MinRating: ptr(4.0)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAdminService_FilterSellers_RatingError(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.On("ListSellersByGameTitle", ctx, "").Return(sellers("a"), nil)
	f.ratings.On("SellerAverages", ctx, []string{"a"}).Return(nil, errors.New("connection reset"))

	_, err := f.svc.FilterSellers(ctx, SellerFilter{})
	assert.Error(t, err)
}
