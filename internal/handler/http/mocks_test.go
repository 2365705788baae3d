package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/prjrating/sellerrating/internal/domain"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return userList(args.Get(0)), args.Error(1)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return userList(args.Get(0)), args.Error(1)
}

func (m *mockUserRepo) ListByRoleAndApproved(ctx context.Context, role domain.Role, approved bool) ([]domain.User, error) {
	args := m.Called(ctx, role, approved)
	return userList(args.Get(0)), args.Error(1)
}

func (m *mockUserRepo) ListSellersPage(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	return userList(args.Get(0)), args.Error(1)
}

func (m *mockUserRepo) ListSellersByGameTitle(ctx context.Context, title string) ([]domain.User, error) {
	args := m.Called(ctx, title)
	return userList(args.Get(0)), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return m.Called(ctx, id, approved).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func userList(v any) []domain.User {
	if v == nil {
		return nil
	}
	return v.([]domain.User)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) CreateWithSeller(ctx context.Context, seller *domain.User, comment *domain.Comment) error {
	return m.Called(ctx, seller, comment).Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListPending(ctx context.Context) ([]domain.Comment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) UpdateMessage(ctx context.Context, id, message string) error {
	return m.Called(ctx, id, message).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommentRepo) Review(ctx context.Context, commentID string, approved bool, rating *domain.Rating) error {
	return m.Called(ctx, commentID, approved, rating).Error(0)
}

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *mockRatingRepo) ExistsForComment(ctx context.Context, commentID string) (bool, error) {
	args := m.Called(ctx, commentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepo) SellerAverage(ctx context.Context, sellerID string) (float64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRatingRepo) SellerAverages(ctx context.Context, sellerIDs []string) (map[string]float64, error) {
	args := m.Called(ctx, sellerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

type mockGameObjectRepo struct {
	mock.Mock
}

func (m *mockGameObjectRepo) Create(ctx context.Context, obj *domain.GameObject) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockGameObjectRepo) GetByID(ctx context.Context, id string) (*domain.GameObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepo) List(ctx context.Context) ([]domain.GameObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.GameObject, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepo) Update(ctx context.Context, obj *domain.GameObject) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockGameObjectRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
