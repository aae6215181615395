package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func newSvc(t *testing.T) (*Service, *role.Service) {
	t.Helper()
	s := memory.NewStore()
	roles := role.NewService(memory.NewRoleRepo(s))
	_, err := roles.Seed(context.Background())
	require.NoError(t, err)
	return NewService(memory.NewPermissionRepo(s), roles), roles
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.Permission{ID: 40, Name: " meals:write ", Description: strPtr("log meals")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID, "id is assigned by storage")
	assert.Equal(t, "meals:write", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	byName, err := svc.GetByName(ctx, "meals:write")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	_, err = svc.Create(ctx, domain.Permission{Name: "meals:write"})
	assert.True(t, domain.Is(err, "permission_already_exists"))

	_, err = svc.Create(ctx, domain.Permission{Name: " "})
	assert.True(t, domain.Is(err, "missing_field"))

	for _, id := range []int64{0, -1, 99} {
		_, err = svc.Get(ctx, id)
		assert.True(t, domain.Is(err, "permission_not_found"), "id=%d", id)
	}
}

func TestUpdate_MergesSetFields(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, domain.Permission{Name: "recipes:read", Description: strPtr("browse recipes")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Permission{Name: "recipes:write"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, p.ID, domain.PermissionPatch{Description: strPtr("browse and search recipes")})
	require.NoError(t, err)
	assert.Equal(t, "recipes:read", got.Name)
	assert.Equal(t, "browse and search recipes", *got.Description)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	_, err = svc.Update(ctx, p.ID, domain.PermissionPatch{Name: strPtr("recipes:write")})
	assert.True(t, domain.Is(err, "permission_already_exists"))

	_, err = svc.Update(ctx, p.ID, domain.PermissionPatch{Name: strPtr("")})
	assert.True(t, domain.Is(err, "missing_field"))

	_, err = svc.Update(ctx, 77, domain.PermissionPatch{Name: strPtr("x")})
	assert.True(t, domain.Is(err, "permission_not_found"))
}

func TestGrantRevoke(t *testing.T) {
	svc, roles := newSvc(t)
	ctx := context.Background()
	admin, err := roles.FindByName(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	read, err := svc.Create(ctx, domain.Permission{Name: "users:read"})
	require.NoError(t, err)
	write, err := svc.Create(ctx, domain.Permission{Name: "users:write"})
	require.NoError(t, err)

	got, err := svc.Grant(ctx, admin.ID, write.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Grant(ctx, admin.ID, read.ID)
	require.NoError(t, err)
	got, err = svc.Grant(ctx, admin.ID, read.ID)
	require.NoError(t, err, "granting twice is a no-op")
	assert.Equal(t, []string{"users:read", "users:write"}, names(got))

	_, err = svc.Grant(ctx, 99, read.ID)
	assert.True(t, domain.Is(err, "role_not_found"))
	_, err = svc.Grant(ctx, admin.ID, 99)
	assert.True(t, domain.Is(err, "permission_not_found"))

	require.NoError(t, svc.Revoke(ctx, admin.ID, write.ID))
	require.NoError(t, svc.Revoke(ctx, admin.ID, write.ID))
	require.NoError(t, svc.Revoke(ctx, admin.ID, 0))
	assert.True(t, domain.Is(svc.Revoke(ctx, 99, write.ID), "role_not_found"))

	got, err = svc.ForRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"users:read"}, names(got))

	_, err = svc.ForRole(ctx, 0)
	assert.True(t, domain.Is(err, "role_not_found"))
}

func TestDelete_DropsGrantsAndIsIdempotent(t *testing.T) {
	svc, roles := newSvc(t)
	ctx := context.Background()
	user, err := roles.FindByName(ctx, domain.RoleUser)
	require.NoError(t, err)
	p, err := svc.Create(ctx, domain.Permission{Name: "meals:read"})
	require.NoError(t, err)
	_, err = svc.Grant(ctx, user.ID, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	require.NoError(t, svc.Delete(ctx, p.ID))
	require.NoError(t, svc.Delete(ctx, 0))

	got, err := svc.ForRole(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingRoles struct{ err error }

func (f failingRoles) FindByID(ctx context.Context, id int64) (domain.Role, error) {
	return domain.Role{}, f.err
}

func TestForRole_StoreFailurePropagates(t *testing.T) {
	svc := NewService(memory.NewPermissionRepo(memory.NewStore()),
		failingRoles{err: domain.ErrDBUnavailable(errors.New("down"))})

	_, err := svc.ForRole(context.Background(), 1)
	assert.True(t, domain.Is(err, "db_unavailable"))
}

func names(ps []domain.Permission) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}
