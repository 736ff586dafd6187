package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// CreateSuite stores a new suite with its access control document and
// returns the suite id.
func (s *Storage) CreateSuite(ctx context.Context, suite models.Suite) (string, error) {
	const op = "storage.CreateSuite"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	acJSON, err := json.Marshal(suite.AccessControl)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO suites (id, name, owner_id, account_type, organization_id, access_control)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	var id string
	if err := s.DB.QueryRowContext(ctx, query,
		suite.ID, suite.Name, suite.OwnerID, suite.AccountType,
		suite.OrganizationID, acJSON).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetSuite returns a suite by id, or nil when it does not exist.
func (s *Storage) GetSuite(ctx context.Context, id string) (*models.Suite, error) {
	const op = "storage.GetSuite"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, owner_id, account_type, organization_id, access_control, created_at
			  FROM suites
			  WHERE id = $1`
	suite, err := scanSuite(s.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return suite, nil
}

func scanSuite(row *sql.Row) (*models.Suite, error) {
	suite := &models.Suite{}
	var orgID sql.NullString
	var acJSON []byte
	if err := row.Scan(&suite.ID, &suite.Name, &suite.OwnerID, &suite.AccountType,
		&orgID, &acJSON, &suite.CreatedAt); err != nil {
		return nil, err
	}
	if orgID.Valid {
		suite.OrganizationID = &orgID.String
	}
	if len(acJSON) > 0 {
		ac := &models.AccessControl{}
		if err := json.Unmarshal(acJSON, ac); err != nil {
			return nil, err
		}
		suite.AccessControl = ac
	}
	return suite, nil
}

// ListSuitesForUser returns the suites the user can see: owned, granted
// through the access document, or belonging to one of the user's
// organizations.
func (s *Storage) ListSuitesForUser(ctx context.Context, userUID string, orgIDs []string, limit, offset int) ([]*models.Suite, error) {
	const op = "storage.ListSuitesForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, owner_id, account_type, organization_id, access_control, created_at
			  FROM suites
			  WHERE owner_id = $1
			     OR access_control->>'owner_id' = $1
			     OR access_control->'admins' ? $1
			     OR access_control->'members' ? $1
			     OR access_control->'permissions_matrix' ? $1
			     OR organization_id = ANY($2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userUID, orgIDs, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Suite
	for rows.Next() {
		suite := &models.Suite{}
		var orgID sql.NullString
		var acJSON []byte
		if err = rows.Scan(&suite.ID, &suite.Name, &suite.OwnerID, &suite.AccountType,
			&orgID, &acJSON, &suite.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if orgID.Valid {
			suite.OrganizationID = &orgID.String
		}
		if len(acJSON) > 0 {
			ac := &models.AccessControl{}
			if err = json.Unmarshal(acJSON, ac); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			suite.AccessControl = ac
		}
		result = append(result, suite)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountOwnedSuites counts the suites owned by the user. Used as the
// authoritative input to the suite creation guard.
func (s *Storage) CountOwnedSuites(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountOwnedSuites"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM suites WHERE owner_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateSuiteName renames a suite and returns the number of updated rows.
func (s *Storage) UpdateSuiteName(ctx context.Context, id, name string) (int, error) {
	const op = "storage.UpdateSuiteName"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE suites SET name = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, name, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// UpdateAccessControl replaces the access control document of a suite.
func (s *Storage) UpdateAccessControl(ctx context.Context, id string, ac models.AccessControl) error {
	const op = "storage.UpdateAccessControl"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	acJSON, err := json.Marshal(ac)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE suites SET access_control = $1 WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, acJSON, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteSuite removes a suite and returns the number of deleted rows.
func (s *Storage) DeleteSuite(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteSuite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM suites WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
