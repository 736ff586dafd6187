package repository

import (
	"context"
	"fmt"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// ListMemberships returns the organization memberships of a user.
func (s *Storage) ListMemberships(ctx context.Context, userUID string) ([]models.OrgMembership, error) {
	const op = "storage.ListMemberships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT org_id, role, status
			  FROM org_memberships
			  WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.OrgMembership
	for rows.Next() {
		var m models.OrgMembership
		if err = rows.Scan(&m.OrgID, &m.Role, &m.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertMembership creates or updates a user's membership in an
// organization.
func (s *Storage) UpsertMembership(ctx context.Context, userUID string, m models.OrgMembership) error {
	const op = "storage.UpsertMembership"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO org_memberships (user_uid, org_id, role, status)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid, org_id)
			  DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status`
	if _, err := s.DB.ExecContext(ctx, query, userUID, m.OrgID, m.Role, m.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
