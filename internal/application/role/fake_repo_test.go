package role

import (
	"context"
	"sync"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	roles  []domain.Role
	inUse  map[int64]bool

	getErr    error
	createErr error

	createCalls int
	updateCalls int
}

func newFakeRepo(roles ...domain.Role) *fakeRepo {
	f := &fakeRepo{inUse: map[int64]bool{}}
	for _, r := range roles {
		f.nextID++
		r.ID = f.nextID
		f.roles = append(f.roles, r)
	}
	return f
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Role{}, f.getErr
	}
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Role{}, domain.ErrRoleNotFound()
}

func (f *fakeRepo) GetByName(ctx context.Context, name string) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Role{}, f.getErr
	}
	for _, r := range f.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return domain.Role{}, domain.ErrRoleNotFound()
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Role(nil), f.roles...), nil
}

func (f *fakeRepo) Create(ctx context.Context, r domain.Role) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return domain.Role{}, f.createErr
	}
	for _, ex := range f.roles {
		if ex.Name == r.Name || ex.FriendlyName == r.FriendlyName {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.roles = append(f.roles, r)
	return r, nil
}

func (f *fakeRepo) Update(ctx context.Context, r domain.Role) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	idx := -1
	for i, ex := range f.roles {
		if ex.ID == r.ID {
			idx = i
			continue
		}
		if ex.Name == r.Name || ex.FriendlyName == r.FriendlyName {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
	}
	if idx < 0 {
		return domain.Role{}, domain.ErrRoleNotFound()
	}
	f.roles[idx] = r
	return r, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[id] {
		return domain.ErrRoleInUse()
	}
	for i, r := range f.roles {
		if r.ID == id {
			f.roles = append(f.roles[:i], f.roles[i+1:]...)
			return nil
		}
	}
	return domain.ErrRoleNotFound()
}
