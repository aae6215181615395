package memory

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type UserRepo struct {
	s *Store
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.User, 0, len(r.s.users))
	for _, id := range sortedIDs(r.s.users) {
		out = append(out, r.s.hydrate(r.s.users[id]))
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.s.hydrate(u), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.s.hydrate(r.s.users[id]), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.emails[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	refs := make([]domain.Role, 0, len(u.Roles))
	for _, role := range domain.UniqueRoles(u.Roles) {
		if _, ok := r.s.roles[role.ID]; !ok {
			return domain.User{}, domain.ErrInvalidRole(role.Name)
		}
		refs = append(refs, domain.Role{ID: role.ID})
	}

	r.s.userSeq++
	u.ID = r.s.userSeq
	u.Roles = refs
	r.s.users[u.ID] = u
	r.s.emails[u.Email] = u.ID

	return r.s.hydrate(u), nil
}

func (r *UserRepo) UpdateDetails(ctx context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if owner, exists := r.s.emails[u.Email]; exists && owner != u.ID {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	next := domain.ReplaceDetails(cur, u)
	delete(r.s.emails, cur.Email)
	r.s.emails[next.Email] = next.ID
	r.s.users[next.ID] = next

	return r.s.hydrate(next), nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.s.emails, u.Email)
	delete(r.s.users, id)
	return nil
}
