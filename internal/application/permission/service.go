package permission

import (
	"context"
	"strings"

	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
)

type Service struct {
	repo  Repo
	roles RoleFinder
}

func NewService(repo Repo, roles RoleFinder) *Service {
	return &Service{repo: repo, roles: roles}
}

func (s *Service) List(ctx context.Context) ([]domain.Permission, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Permission, error) {
	if id <= 0 {
		return domain.Permission{}, domain.ErrPermissionNotFound()
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Permission{}, domain.ErrMissingField("name")
	}
	return s.repo.GetByName(ctx, name)
}

func (s *Service) Create(ctx context.Context, p domain.Permission) (domain.Permission, error) {
	p.ID = 0
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return domain.Permission{}, err
	}
	return s.repo.Create(ctx, p)
}

// Update merges the set fields of patch into the stored permission.
func (s *Service) Update(ctx context.Context, id int64, patch domain.PermissionPatch) (domain.Permission, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Permission{}, err
	}
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return domain.Permission{}, err
	}
	return s.repo.Update(ctx, next)
}

// Delete removes a permission and its grants. An absent id is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if domain.Is(err, domain.CodePermissionNotFound) {
		return nil
	}
	return err
}

// ForRole lists the permissions granted to a role, ordered by id.
func (s *Service) ForRole(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.repo.ListByRole(ctx, roleID)
}

// Grant attaches a permission to a role and returns the role's permissions.
func (s *Service) Grant(ctx context.Context, roleID, permissionID int64) ([]domain.Permission, error) {
	r, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Grant(ctx, r.ID, p.ID); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info().
		Str("role", r.Name).
		Str("permission", p.Name).
		Msg("permission_granted")
	return s.repo.ListByRole(ctx, r.ID)
}

// Revoke detaches a permission from a role. Revoking a grant that does not
// exist is not an error; an unknown role is.
func (s *Service) Revoke(ctx context.Context, roleID, permissionID int64) error {
	r, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}
	if permissionID <= 0 {
		return nil
	}
	if err := s.repo.Revoke(ctx, r.ID, permissionID); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info().
		Str("role", r.Name).
		Int64("permission_id", permissionID).
		Msg("permission_revoked")
	return nil
}
