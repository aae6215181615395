package user

import (
	"context"
	"errors"
	"sync"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User

	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]domain.User{}}
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) UpdateDetails(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	for id, ex := range f.users {
		if id != u.ID && ex.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	u.Roles = cur.Roles
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.users, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (p *fakePublisher) PublishUserEvent(ctx context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *fakePublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
