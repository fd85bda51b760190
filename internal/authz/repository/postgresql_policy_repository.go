// Package repository implements data persistence for stored policies.
//
// Provides PostgreSQL and MySQL implementations. PostgreSQL uses native UUID
// types, MySQL uses BINARY(16) types. Policy documents are stored as JSON.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// PostgreSQLPolicyRepository implements policy persistence for PostgreSQL.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

// Create inserts a new stored policy into the PostgreSQL database.
func (p *PostgreSQLPolicyRepository) Create(ctx context.Context, policy *authzDomain.StoredPolicy) error {
	documentJSON, err := json.Marshal(policy.Document)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy document")
	}

	query := `INSERT INTO policies (id, name, document, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err = p.db.ExecContext(
		ctx,
		query,
		policy.ID,
		policy.Name,
		documentJSON,
		policy.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return authzDomain.ErrPolicyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create policy")
	}
	return nil
}

// Get retrieves a stored policy by name from the PostgreSQL database.
func (p *PostgreSQLPolicyRepository) Get(
	ctx context.Context,
	name string,
) (*authzDomain.StoredPolicy, error) {
	query := `SELECT id, name, document, created_at FROM policies WHERE name = $1`

	var policy authzDomain.StoredPolicy
	var documentJSON []byte

	err := p.db.QueryRowContext(ctx, query, name).Scan(
		&policy.ID,
		&policy.Name,
		&documentJSON,
		&policy.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrPolicyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get policy")
	}

	if err := json.Unmarshal(documentJSON, &policy.Document); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy document")
	}

	return &policy, nil
}

// List retrieves stored policies ordered by name from the PostgreSQL database.
func (p *PostgreSQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authzDomain.StoredPolicy, error) {
	query := `SELECT id, name, document, created_at FROM policies
			  ORDER BY name ASC
			  OFFSET $1 LIMIT $2`

	rows, err := p.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policies")
	}
	defer func() { _ = rows.Close() }()

	policies := []*authzDomain.StoredPolicy{}
	for rows.Next() {
		var policy authzDomain.StoredPolicy
		var documentJSON []byte

		if err := rows.Scan(&policy.ID, &policy.Name, &documentJSON, &policy.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan policy")
		}
		if err := json.Unmarshal(documentJSON, &policy.Document); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal policy document")
		}
		policies = append(policies, &policy)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate policies")
	}

	return policies, nil
}

// Delete removes a stored policy by name from the PostgreSQL database.
func (p *PostgreSQLPolicyRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM policies WHERE name = $1`

	result, err := p.db.ExecContext(ctx, query, name)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete policy")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return authzDomain.ErrPolicyNotFound
	}

	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL policy repository.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}
