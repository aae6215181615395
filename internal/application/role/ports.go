package role

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Repo is the persistence port for roles.
// Lookups return domain.ErrRoleNotFound when the row is absent.
type Repo interface {
	GetByID(ctx context.Context, id int64) (domain.Role, error)
	GetByName(ctx context.Context, name string) (domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	// Create fails with domain.ErrRoleAlreadyExists on a duplicate name or friendly name.
	Create(ctx context.Context, r domain.Role) (domain.Role, error)
	// Update writes name and friendly name, with the same uniqueness rules as Create.
	Update(ctx context.Context, r domain.Role) (domain.Role, error)
	// Delete returns domain.ErrRoleNotFound when nothing was deleted and
	// domain.ErrRoleInUse when users still hold the role.
	Delete(ctx context.Context, id int64) error
}
