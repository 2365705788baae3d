package http

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/prjrating/sellerrating/internal/domain"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// memStore is an in-memory stand-in for the PostgreSQL schema, including the
// unique email and one-rating-per-comment constraints and the user delete
// cascade. Its four views implement the repository interfaces.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	comments map[string]domain.Comment
	ratings  map[string]domain.Rating // keyed by comment id
	objects  map[string]domain.GameObject
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		comments: make(map[string]domain.Comment),
		ratings:  make(map[string]domain.Rating),
		objects:  make(map[string]domain.GameObject),
	}
}

func (s *memStore) Users() *memUsers       { return (*memUsers)(s) }
func (s *memStore) Comments() *memComments { return (*memComments)(s) }
func (s *memStore) Ratings() *memRatings   { return (*memRatings)(s) }
func (s *memStore) Objects() *memObjects   { return (*memObjects)(s) }

func (s *memStore) commentsOf(sellerID string) []domain.Comment {
	var out []domain.Comment
	for _, c := range s.comments {
		if c.SellerID == sellerID {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) ratingsOf(sellerID string) []domain.Rating {
	var out []domain.Rating
	for _, c := range s.commentsOf(sellerID) {
		if r, ok := s.ratings[c.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *memStore) objectsOf(userID string) []domain.GameObject {
	var out []domain.GameObject
	for _, o := range s.objects {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func sortUsers(users []domain.User) []domain.User {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

type memUsers memStore

func (r *memUsers) insert(u *domain.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.AlreadyExists("Email is already registered")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(u)
}

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", id)
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFoundf("User not found with email: %s", email)
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUsers) filter(keep func(domain.User) bool) []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return sortUsers(out)
}

func (r *memUsers) List(context.Context) ([]domain.User, error) {
	return r.filter(func(domain.User) bool { return true }), nil
}

func (r *memUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool { return u.Role == role }), nil
}

func (r *memUsers) ListByRoleAndApproved(_ context.Context, role domain.Role, approved bool) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool { return u.Role == role && u.Approved == approved }), nil
}

func (r *memUsers) ListSellersPage(_ context.Context, limit, offset int) ([]domain.User, error) {
	sellers := r.filter(func(u domain.User) bool { return u.IsSeller() })
	if offset >= len(sellers) {
		return []domain.User{}, nil
	}
	return sellers[offset:min(offset+limit, len(sellers))], nil
}

func (r *memUsers) ListSellersByGameTitle(_ context.Context, title string) ([]domain.User, error) {
	title = strings.ToLower(title)
	return r.filter(func(u domain.User) bool {
		if !u.IsSeller() {
			return false
		}
		if title == "" {
			return true
		}
		for _, o := range (*memStore)(r).objectsOf(u.ID) {
			if strings.Contains(strings.ToLower(o.Title), title) {
				return true
			}
		}
		return false
	}), nil
}

func (r *memUsers) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.NotFound("User", u.ID)
	}
	for _, existing := range r.users {
		if existing.ID != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return apperrors.AlreadyExists("Email is already registered")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUsers) SetApproved(_ context.Context, id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("User", id)
	}
	u.Approved = approved
	r.users[id] = u
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("User", id)
	}
	s := (*memStore)(r)
	for _, c := range s.commentsOf(id) {
		delete(s.ratings, c.ID)
		delete(s.comments, c.ID)
	}
	for _, o := range s.objectsOf(id) {
		delete(s.objects, o.ID)
	}
	delete(s.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// comments
// ---------------------------------------------------------------------------

type memComments memStore

func (r *memComments) Create(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = *c
	return nil
}

func (r *memComments) CreateWithSeller(_ context.Context, seller *domain.User, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := (*memUsers)(r).insert(seller); err != nil {
		return err
	}
	r.comments[c.ID] = *c
	return nil
}

func (r *memComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("Comment", id)
	}
	return &c, nil
}

func (r *memComments) ListBySeller(_ context.Context, sellerID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := (*memStore)(r).commentsOf(sellerID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memComments) ListPending(context.Context) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.comments {
		if !c.Approved {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memComments) UpdateMessage(_ context.Context, id, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return apperrors.NotFound("Comment", id)
	}
	c.Message = message
	r.comments[id] = c
	return nil
}

func (r *memComments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFound("Comment", id)
	}
	delete(r.ratings, id)
	delete(r.comments, id)
	return nil
}

func (r *memComments) Review(_ context.Context, commentID string, approved bool, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return apperrors.NotFound("Comment", commentID)
	}
	if rating != nil {
		if _, rated := r.ratings[commentID]; rated {
			return apperrors.AlreadyExists("Rating already exists for comment")
		}
		r.ratings[commentID] = *rating
	}
	if !approved {
		delete(r.ratings, commentID)
	}
	c.Approved = approved
	r.comments[commentID] = c
	return nil
}

// ---------------------------------------------------------------------------
// ratings
// ---------------------------------------------------------------------------

type memRatings memStore

func (r *memRatings) Create(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ratings[rating.CommentID]; ok {
		return apperrors.AlreadyExists("Rating already exists for comment")
	}
	r.ratings[rating.CommentID] = *rating
	return nil
}

func (r *memRatings) ExistsForComment(_ context.Context, commentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ratings[commentID]
	return ok, nil
}

func (r *memRatings) SellerAverage(_ context.Context, sellerID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ratings := (*memStore)(r).ratingsOf(sellerID)
	if len(ratings) == 0 {
		return 0, nil
	}
	var sum int
	for _, rt := range ratings {
		sum += rt.RatingValue
	}
	return float64(sum) / float64(len(ratings)), nil
}

func (r *memRatings) SellerAverages(ctx context.Context, sellerIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(sellerIDs))
	for _, id := range sellerIDs {
		avg, err := r.SellerAverage(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = avg
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// game objects
// ---------------------------------------------------------------------------

type memObjects memStore

func (r *memObjects) Create(_ context.Context, obj *domain.GameObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[obj.ID] = *obj
	return nil
}

func (r *memObjects) GetByID(_ context.Context, id string) (*domain.GameObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok {
		return nil, apperrors.NotFound("GameObject", id)
	}
	return &o, nil
}

func (r *memObjects) List(context.Context) ([]domain.GameObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GameObject, 0, len(r.objects))
	for _, o := range r.objects {
		out = append(out, o)
	}
	return out, nil
}

func (r *memObjects) ListByUser(_ context.Context, userID string) ([]domain.GameObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*memStore)(r).objectsOf(userID), nil
}

func (r *memObjects) Update(_ context.Context, obj *domain.GameObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[obj.ID]; !ok {
		return apperrors.NotFound("GameObject", obj.ID)
	}
	r.objects[obj.ID] = *obj
	return nil
}

func (r *memObjects) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[id]; !ok {
		return apperrors.NotFound("GameObject", id)
	}
	delete(r.objects, id)
	return nil
}
