package memory

import (
	"context"
	"sort"
	"time"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type PermissionRepo struct {
	s   *Store
	now func() time.Time
}

func NewPermissionRepo(s *Store) *PermissionRepo {
	return &PermissionRepo{s: s, now: time.Now}
}

func (r *PermissionRepo) List(ctx context.Context) ([]domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Permission, 0, len(r.s.permissions))
	for _, id := range sortedIDs(r.s.permissions) {
		out = append(out, r.s.permissions[id])
	}
	return out, nil
}

func (r *PermissionRepo) GetByID(ctx context.Context, id int64) (domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.permissions[id]
	if !ok {
		return domain.Permission{}, domain.ErrPermissionNotFound()
	}
	return p, nil
}

func (r *PermissionRepo) GetByName(ctx context.Context, name string) (domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.permissions {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Permission{}, domain.ErrPermissionNotFound()
}

func (r *PermissionRepo) Create(ctx context.Context, p domain.Permission) (domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(p.Name, 0) {
		return domain.Permission{}, domain.ErrPermissionAlreadyExists()
	}
	now := r.now().UTC()
	r.s.permSeq++
	p.ID = r.s.permSeq
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.permissions[p.ID] = p
	return p, nil
}

func (r *PermissionRepo) Update(ctx context.Context, p domain.Permission) (domain.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.permissions[p.ID]
	if !ok {
		return domain.Permission{}, domain.ErrPermissionNotFound()
	}
	if r.nameTaken(p.Name, p.ID) {
		return domain.Permission{}, domain.ErrPermissionAlreadyExists()
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.now().UTC()
	r.s.permissions[p.ID] = p
	return p, nil
}

// Delete also drops every grant of the permission.
func (r *PermissionRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.permissions[id]; !ok {
		return domain.ErrPermissionNotFound()
	}
	delete(r.s.permissions, id)
	for _, set := range r.s.grants {
		delete(set, id)
	}
	return nil
}

func (r *PermissionRepo) ListByRole(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	set := r.s.grants[roleID]
	out := make([]domain.Permission, 0, len(set))
	for id := range set {
		if p, ok := r.s.permissions[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Grant is idempotent.
func (r *PermissionRepo) Grant(ctx context.Context, roleID, permissionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[roleID]; !ok {
		return domain.ErrRoleNotFound()
	}
	if _, ok := r.s.permissions[permissionID]; !ok {
		return domain.ErrPermissionNotFound()
	}
	set, ok := r.s.grants[roleID]
	if !ok {
		set = make(map[int64]struct{})
		r.s.grants[roleID] = set
	}
	set[permissionID] = struct{}{}
	return nil
}

// Revoke is idempotent.
func (r *PermissionRepo) Revoke(ctx context.Context, roleID, permissionID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.grants[roleID], permissionID)
	return nil
}

// nameTaken: caller holds s.mu.
func (r *PermissionRepo) nameTaken(name string, except int64) bool {
	for id, p := range r.s.permissions {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}
