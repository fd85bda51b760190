package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

func TestMySQLPolicyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLPolicyRepository(db)
	ctx := context.Background()
	policy := storedPolicyFixture(t)

	uuidBytes, err := policy.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success_Create", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO policies`)).
			WithArgs(uuidBytes, policy.Name, documentJSON(t, policy.Document), policy.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(ctx, policy)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateName", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO policies`)).
			WithArgs(uuidBytes, policy.Name, documentJSON(t, policy.Document), policy.CreatedAt).
			WillReturnError(errors.New("Error 1062: Duplicate entry 'can-view-page' for key 'policies.name'"))

		err := repo.Create(ctx, policy)

		assert.ErrorIs(t, err, authzDomain.ErrPolicyAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLPolicyRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLPolicyRepository(db)
	ctx := context.Background()
	policy := storedPolicyFixture(t)

	uuidBytes, err := policy.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success_GetRoundTripsBinaryUUID", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "document", "created_at"}).
			AddRow(uuidBytes, policy.Name, documentJSON(t, policy.Document), policy.CreatedAt)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, document, created_at FROM policies WHERE name = ?`)).
			WithArgs(policy.Name).
			WillReturnRows(rows)

		retrieved, err := repo.Get(ctx, policy.Name)

		require.NoError(t, err)
		assert.Equal(t, policy.ID, retrieved.ID)
		assert.Equal(t, policy.Document, retrieved.Document)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, document, created_at FROM policies WHERE name = ?`)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "document", "created_at"}))

		retrieved, err := repo.Get(ctx, "missing")

		assert.Nil(t, retrieved)
		assert.ErrorIs(t, err, authzDomain.ErrPolicyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLPolicyRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLPolicyRepository(db)
	ctx := context.Background()
	policy := storedPolicyFixture(t)

	uuidBytes, err := policy.ID.MarshalBinary()
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "document", "created_at"}).
		AddRow(uuidBytes, policy.Name, documentJSON(t, policy.Document), policy.CreatedAt)
	mock.ExpectQuery(`SELECT id, name, document, created_at FROM policies`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	policies, err := repo.List(ctx, 0, 50)

	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, policy.ID, policies[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPolicyRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLPolicyRepository(db)
	ctx := context.Background()

	t.Run("Success_Delete", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM policies WHERE name = ?`)).
			WithArgs("can-view-page").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(ctx, "can-view-page")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM policies WHERE name = ?`)).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, "missing")

		assert.ErrorIs(t, err, authzDomain.ErrPolicyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
