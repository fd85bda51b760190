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

// MySQLPolicyRepository implements policy persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLPolicyRepository struct {
	db *sql.DB
}

// Create inserts a new stored policy into the MySQL database.
func (m *MySQLPolicyRepository) Create(ctx context.Context, policy *authzDomain.StoredPolicy) error {
	documentJSON, err := json.Marshal(policy.Document)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal policy document")
	}

	uuidBytes, err := policy.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO policies (id, name, document, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		uuidBytes,
		policy.Name,
		documentJSON,
		policy.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return authzDomain.ErrPolicyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create policy")
	}
	return nil
}

// Get retrieves a stored policy by name from the MySQL database.
func (m *MySQLPolicyRepository) Get(
	ctx context.Context,
	name string,
) (*authzDomain.StoredPolicy, error) {
	query := `SELECT id, name, document, created_at FROM policies WHERE name = ?`

	var policy authzDomain.StoredPolicy
	var idBytes []byte
	var documentJSON []byte

	err := m.db.QueryRowContext(ctx, query, name).Scan(
		&idBytes,
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

	if err := policy.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := json.Unmarshal(documentJSON, &policy.Document); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal policy document")
	}

	return &policy, nil
}

// List retrieves stored policies ordered by name from the MySQL database.
func (m *MySQLPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authzDomain.StoredPolicy, error) {
	query := `SELECT id, name, document, created_at FROM policies
			  ORDER BY name ASC
			  LIMIT ? OFFSET ?`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list policies")
	}
	defer func() { _ = rows.Close() }()

	policies := []*authzDomain.StoredPolicy{}
	for rows.Next() {
		var policy authzDomain.StoredPolicy
		var idBytes []byte
		var documentJSON []byte

		if err := rows.Scan(&idBytes, &policy.Name, &documentJSON, &policy.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan policy")
		}
		if err := policy.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
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

// Delete removes a stored policy by name from the MySQL database.
func (m *MySQLPolicyRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM policies WHERE name = ?`

	result, err := m.db.ExecContext(ctx, query, name)
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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLPolicyRepository creates a new MySQL policy repository.
func NewMySQLPolicyRepository(db *sql.DB) *MySQLPolicyRepository {
	return &MySQLPolicyRepository{db: db}
}
