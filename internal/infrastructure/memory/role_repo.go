package memory

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type RoleRepo struct {
	s *Store
}

func NewRoleRepo(s *Store) *RoleRepo {
	return &RoleRepo{s: s}
}

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok {
		return domain.Role{}, domain.ErrRoleNotFound()
	}
	return role, nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return domain.Role{}, domain.ErrRoleNotFound()
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Role, 0, len(r.s.roles))
	for _, id := range sortedIDs(r.s.roles) {
		out = append(out, r.s.roles[id])
	}
	return out, nil
}

func (r *RoleRepo) Create(ctx context.Context, role domain.Role) (domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ex := range r.s.roles {
		if ex.Name == role.Name || ex.FriendlyName == role.FriendlyName {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
	}
	r.s.roleSeq++
	role.ID = r.s.roleSeq
	r.s.roles[role.ID] = role
	return role, nil
}

func (r *RoleRepo) Update(ctx context.Context, role domain.Role) (domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[role.ID]; !ok {
		return domain.Role{}, domain.ErrRoleNotFound()
	}
	for id, ex := range r.s.roles {
		if id != role.ID && (ex.Name == role.Name || ex.FriendlyName == role.FriendlyName) {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
	}
	r.s.roles[role.ID] = role
	return role, nil
}

// Delete refuses while any user still references the role, like the
// ON DELETE RESTRICT foreign key of the SQL schema. Permission grants go
// with the role.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[id]; !ok {
		return domain.ErrRoleNotFound()
	}
	for _, u := range r.s.users {
		for _, ref := range u.Roles {
			if ref.ID == id {
				return domain.ErrRoleInUse()
			}
		}
	}
	delete(r.s.roles, id)
	delete(r.s.grants, id)
	return nil
}
