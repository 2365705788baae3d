package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/notification"
	"github.com/prjrating/sellerrating/internal/repository"
	"github.com/prjrating/sellerrating/pkg/pagination"
)

// AdminService implements seller moderation and the seller rankings.
type AdminService struct {
	users           repository.UserRepository
	ratings         repository.RatingRepository
	notifier        Notifier
	defaultPageSize int
	logger          *slog.Logger
}

// NewAdminService creates a new admin service. defaultPageSize applies to
// TopSellers when the caller gives no size.
func NewAdminService(
	users repository.UserRepository,
	ratings repository.RatingRepository,
	notifier Notifier,
	defaultPageSize int,
	logger *slog.Logger,
) *AdminService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &AdminService{
		users:           users,
		ratings:         ratings,
		notifier:        notifier,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// SellerFilter narrows FilterSellers. The rating range only applies when
// both bounds are set.
type SellerFilter struct {
	GameTitle *string
	MinRating *float64
	MaxRating *float64
}

// PendingSellers returns unapproved sellers with their ratings.
func (s *AdminService) PendingSellers(ctx context.Context) ([]domain.SellerRating, error) {
	sellers, err := s.users.ListByRoleAndApproved(ctx, domain.RoleSeller, false)
	if err != nil {
		return nil, fmt.Errorf("list pending sellers: %w", err)
	}
	return s.withRatings(ctx, sellers)
}

// ApproveSeller marks a user approved and tells them so.
func (s *AdminService) ApproveSeller(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.users.SetApproved(ctx, id, true); err != nil {
		return nil, fmt.Errorf("approve seller: %w", err)
	}
	user.Approved = true

	notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:      notification.KindSellerApproved,
		Recipient: user.Email,
	})

	s.logger.InfoContext(ctx, "seller approved", slog.String("user_id", id))
	return user, nil
}

// DeclineSeller deletes the seller with its comments, ratings and game
// objects.
func (s *AdminService) DeclineSeller(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("decline seller: %w", err)
	}
	s.logger.InfoContext(ctx, "seller declined", slog.String("user_id", id))
	return nil
}

// TopSellers loads one page of sellers in registration order and sorts that
// page by rating, highest first. Sellers with equal ratings keep their
// registration order. Pages past pagination.MaxPage are empty.
func (s *AdminService) TopSellers(ctx context.Context, page, size int) ([]domain.SellerRating, error) {
	if page < 1 {
		page = 1
	}
	if page > pagination.MaxPage {
		return []domain.SellerRating{}, nil
	}
	if size < 1 {
		size = s.defaultPageSize
	}
	if size > pagination.MaxPerPage {
		size = pagination.MaxPerPage
	}

	sellers, err := s.users.ListSellersPage(ctx, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("list sellers page: %w", err)
	}

	ranked, err := s.withRatings(ctx, sellers)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})
	return ranked, nil
}

// FilterSellers returns sellers matching f with their ratings.
func (s *AdminService) FilterSellers(ctx context.Context, f SellerFilter) ([]domain.SellerRating, error) {
	var title string
	if f.GameTitle != nil {
		title = *f.GameTitle
	}

	sellers, err := s.users.ListSellersByGameTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("filter sellers: %w", err)
	}

	rated, err := s.withRatings(ctx, sellers)
	if err != nil {
		return nil, err
	}
	if f.MinRating == nil || f.MaxRating == nil {
		return rated, nil
	}

	out := make([]domain.SellerRating, 0, len(rated))
	for _, sr := range rated {
		if sr.Rating >= *f.MinRating && sr.Rating <= *f.MaxRating {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (s *AdminService) withRatings(ctx context.Context, sellers []domain.User) ([]domain.SellerRating, error) {
	ids := make([]string, len(sellers))
	for i, u := range sellers {
		ids[i] = u.ID
	}

	avgs, err := s.ratings.SellerAverages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("seller ratings: %w", err)
	}

	out := make([]domain.SellerRating, len(sellers))
	for i, u := range sellers {
		out[i] = domain.SellerRating{Seller: u, Rating: avgs[u.ID]}
	}
	return out, nil
}
