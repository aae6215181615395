package permission

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Repo is the persistence port for permissions and their role grants.
// Lookups return domain.ErrPermissionNotFound when the row is absent.
type Repo interface {
	List(ctx context.Context) ([]domain.Permission, error)
	GetByID(ctx context.Context, id int64) (domain.Permission, error)
	GetByName(ctx context.Context, name string) (domain.Permission, error)
	// Create and Update fail with domain.ErrPermissionAlreadyExists on a duplicate name.
	Create(ctx context.Context, p domain.Permission) (domain.Permission, error)
	Update(ctx context.Context, p domain.Permission) (domain.Permission, error)
	// Delete returns domain.ErrPermissionNotFound when nothing was deleted.
	// Grants of the permission are removed with it.
	Delete(ctx context.Context, id int64) error

	ListByRole(ctx context.Context, roleID int64) ([]domain.Permission, error)
	// Grant is idempotent. It returns domain.ErrRoleNotFound or
	// domain.ErrPermissionNotFound when either side is missing.
	Grant(ctx context.Context, roleID, permissionID int64) error
	Revoke(ctx context.Context, roleID, permissionID int64) error
}

// RoleFinder is satisfied by *role.Service.
type RoleFinder interface {
	FindByID(ctx context.Context, id int64) (domain.Role, error)
}
