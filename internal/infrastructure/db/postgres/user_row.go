package postgres

import (
	"database/sql"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type userRow struct {
	ID             int64
	FirstName      sql.NullString
	LastName       sql.NullString
	Email          string
	Password       string
	OAuth2Provider sql.NullString
	OAuth2ID       sql.NullString
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(s rowScanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.FirstName,
		&ur.LastName,
		&ur.Email,
		&ur.Password,
		&ur.OAuth2Provider,
		&ur.OAuth2ID,
	)
	return ur, err
}

func toDomainUser(ur userRow, roles []domain.Role) domain.User {
	if roles == nil {
		roles = []domain.Role{}
	}
	return domain.User{
		ID:             ur.ID,
		FirstName:      fromNull(ur.FirstName),
		LastName:       fromNull(ur.LastName),
		Email:          ur.Email,
		Password:       ur.Password,
		OAuth2Provider: fromNull(ur.OAuth2Provider),
		OAuth2ID:       fromNull(ur.OAuth2ID),
		Roles:          roles,
	}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
