package role

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Seed makes sure every canonical role exists, inserting only the missing
// ones. Safe to run on every boot and from several replicas at once: a
// concurrent insert that loses the race is treated as "already present".
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, want := range domain.CanonicalRoles() {
		_, err := s.repo.GetByName(ctx, want.Name)
		if err == nil {
			continue
		}
		if !domain.IsKind(err, domain.KindNotFound) {
			return created, err
		}

		if _, err := s.repo.Create(ctx, want); err != nil {
			if domain.Is(err, domain.CodeRoleExists) {
				continue
			}
			return created, err
		}
		created++
		zlog.Info().Str("role", want.Name).Msg("seed: role created")
	}
	return created, nil
}
