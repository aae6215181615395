package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSchemaStatements_AreIdempotent(t *testing.T) {
	stmts := SchemaStatements()
	assert.NotEmpty(t, stmts)
	for _, s := range stmts {
		assert.True(t,
			strings.Contains(s, "IF NOT EXISTS"),
			"statement must be re-runnable: %s", s)
	}
}

func TestSchema_RoleForeignKeyRestricts(t *testing.T) {
	var userRoles string
	for _, s := range SchemaStatements() {
		if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS user_roles") {
			userRoles = s
		}
	}
	assert.Contains(t, userRoles, "REFERENCES role (id) ON DELETE RESTRICT")
	assert.Contains(t, userRoles, "REFERENCES application_user (id) ON DELETE CASCADE")
}

func TestSchema_RolePermissionsCascade(t *testing.T) {
	var grants string
	for _, s := range SchemaStatements() {
		if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS role_permissions") {
			grants = s
		}
	}
	assert.Contains(t, grants, "REFERENCES role (id) ON DELETE CASCADE")
	assert.Contains(t, grants, "REFERENCES permission (id) ON DELETE CASCADE")
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMock(t)
	for range SchemaStatements() {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	assert.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())

	db2, mock2 := newMock(t)
	mock2.ExpectExec("CREATE").WillReturnError(errors.New("permission denied"))
	err := EnsureSchema(context.Background(), db2)
	assert.ErrorContains(t, err, "ensure schema")
}
