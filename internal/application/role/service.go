package role

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// FindDefaultRole returns the role attached to users created without roles.
func (s *Service) FindDefaultRole(ctx context.Context) (domain.Role, error) {
	return s.repo.GetByName(ctx, domain.DefaultRoleName)
}

func (s *Service) FindByName(ctx context.Context, name string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Role{}, domain.ErrMissingField("name")
	}
	return s.repo.GetByName(ctx, name)
}

func (s *Service) FindByID(ctx context.Context, id int64) (domain.Role, error) {
	if id <= 0 {
		return domain.Role{}, domain.ErrRoleNotFound()
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetAllRoles(ctx context.Context) ([]domain.Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateRole(ctx context.Context, r domain.Role) (domain.Role, error) {
	r.ID = 0
	r.Name = strings.TrimSpace(r.Name)
	r.FriendlyName = strings.TrimSpace(r.FriendlyName)
	if err := r.Validate(); err != nil {
		return domain.Role{}, err
	}
	return s.repo.Create(ctx, r)
}

// UpdateRole overwrites the fields set in p. Renaming a canonical role is
// refused so the seeded directory stays addressable by name.
func (s *Service) UpdateRole(ctx context.Context, id int64, p domain.RolePatch) (domain.Role, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Role{}, err
	}
	next := p.Apply(current)
	if err := next.Validate(); err != nil {
		return domain.Role{}, err
	}
	if next.Name != current.Name && isCanonical(current.Name) {
		return domain.Role{}, domain.ErrInvalidField("name", "canonical roles cannot be renamed")
	}
	if next == current {
		return current, nil
	}
	return s.repo.Update(ctx, next)
}

func isCanonical(name string) bool {
	for _, r := range domain.CanonicalRoles() {
		if r.Name == name {
			return true
		}
	}
	return false
}

// DeleteRole removes a role by id. Deleting an absent id is not an error.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if domain.Is(err, domain.CodeRoleNotFound) {
		return nil
	}
	return err
}

// Resolve maps a caller-supplied role reference onto a stored role:
// by id when set, otherwise by name. Unknown references are a validation error.
func (s *Service) Resolve(ctx context.Context, ref domain.Role) (domain.Role, error) {
	var (
		r   domain.Role
		err error
		key string
	)
	switch {
	case ref.ID > 0:
		key = ref.Name
		if key == "" {
			key = "#" + strconv.FormatInt(ref.ID, 10)
		}
		r, err = s.repo.GetByID(ctx, ref.ID)
	case strings.TrimSpace(ref.Name) != "":
		key = strings.TrimSpace(ref.Name)
		r, err = s.repo.GetByName(ctx, key)
	default:
		return domain.Role{}, domain.ErrInvalidRole("")
	}
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.Role{}, domain.ErrInvalidRole(key)
		}
		return domain.Role{}, err
	}
	return r, nil
}
