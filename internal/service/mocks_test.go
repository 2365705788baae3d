package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/notification"
)

// testBcryptCost keeps hashing fast in tests.
const testBcryptCost = 4

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) ListByRoleAndApproved(ctx context.Context, role domain.Role, approved bool) ([]domain.User, error) {
	args := m.Called(ctx, role, approved)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) ListSellersPage(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) ListSellersByGameTitle(ctx context.Context, title string) ([]domain.User, error) {
	args := m.Called(ctx, title)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	args := m.Called(ctx, id, approved)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) CreateWithSeller(ctx context.Context, seller *domain.User, comment *domain.Comment) error {
	args := m.Called(ctx, seller, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) ListPending(ctx context.Context) ([]domain.Comment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) UpdateMessage(ctx context.Context, id, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) Review(ctx context.Context, commentID string, approved bool, rating *domain.Rating) error {
	args := m.Called(ctx, commentID, approved, rating)
	return args.Error(0)
}

// --- Mock Rating Repository ---

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) ExistsForComment(ctx context.Context, commentID string) (bool, error) {
	args := m.Called(ctx, commentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepository) SellerAverage(ctx context.Context, sellerID string) (float64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRatingRepository) SellerAverages(ctx context.Context, sellerIDs []string) (map[string]float64, error) {
	args := m.Called(ctx, sellerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// --- Mock Game Object Repository ---

type mockGameObjectRepository struct {
	mock.Mock
}

func (m *mockGameObjectRepository) Create(ctx context.Context, obj *domain.GameObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGameObjectRepository) GetByID(ctx context.Context, id string) (*domain.GameObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepository) List(ctx context.Context) ([]domain.GameObject, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepository) ListByUser(ctx context.Context, userID string) ([]domain.GameObject, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.GameObject), args.Error(1)
}

func (m *mockGameObjectRepository) Update(ctx context.Context, obj *domain.GameObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockGameObjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Code Store ---

type mockCodeStore struct {
	mock.Mock
}

func (m *mockCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCodeStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCodeStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockCodeStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// --- Mock Notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// --- Fixtures ---

func sampleSeller() *domain.User {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:        "seller-1",
		FirstName: "Mira",
		LastName:  "Kovac",
		Email:     "mira@example.com",
		Role:      domain.RoleSeller,
		Approved:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ptr[T any](v T) *T { return &v }
