package memory

import (
	"sort"
	"sync"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Store is an in-process stand-in for the relational schema. Users, roles and
// permissions share one lock so the user_roles and role_permissions
// associations keep their foreign-key rules.
type Store struct {
	mu sync.RWMutex

	userSeq int64
	users   map[int64]domain.User // Roles holds ids only
	emails  map[string]int64

	roleSeq int64
	roles   map[int64]domain.Role

	permSeq     int64
	permissions map[int64]domain.Permission
	grants      map[int64]map[int64]struct{} // role id -> permission ids

	unitSeq   int64
	units     map[int64]domain.UnitOfMeasure
	mealSeq   int64
	mealTypes map[int64]domain.MealType
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int64]domain.User),
		emails:      make(map[string]int64),
		roles:       make(map[int64]domain.Role),
		permissions: make(map[int64]domain.Permission),
		grants:      make(map[int64]map[int64]struct{}),
		units:       make(map[int64]domain.UnitOfMeasure),
		mealTypes:   make(map[int64]domain.MealType),
	}
}

// hydrate replaces the stored role ids with the current role rows.
// Caller holds s.mu.
func (s *Store) hydrate(u domain.User) domain.User {
	roles := make([]domain.Role, 0, len(u.Roles))
	for _, ref := range u.Roles {
		if r, ok := s.roles[ref.ID]; ok {
			roles = append(roles, r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	u.Roles = roles
	return u
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
