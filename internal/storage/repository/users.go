package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// RegisterUser stores a new user and returns the generated uid.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, email_verified, account_type,
			      organization_id, subscription_type, subscription_status, trial_start_date,
			      trial_end_date, is_trial_active, trial_days_remaining)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.EmailVerified, user.AccountType,
		user.OrganizationID, user.SubscriptionType, user.SubscriptionStatus, user.TrialStartDate,
		user.TrialEndDate, user.IsTrialActive, user.TrialDaysRemaining).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const userColumns = `uid, email, username, password_hash, email_verified, account_type,
			      organization_id, subscription_type, subscription_status, trial_start_date,
			      trial_end_date, is_trial_active, trial_days_remaining`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var orgID sql.NullString
	var trialStart, trialEnd sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.EmailVerified,
		&u.AccountType, &orgID, &u.SubscriptionType, &u.SubscriptionStatus,
		&trialStart, &trialEnd, &u.IsTrialActive, &u.TrialDaysRemaining); err != nil {
		return nil, err
	}
	if orgID.Valid {
		u.OrganizationID = &orgID.String
	}
	if trialStart.Valid {
		u.TrialStartDate = &trialStart.Time
	}
	if trialEnd.Valid {
		u.TrialEndDate = &trialEnd.Time
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser returns a user by uid.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateTrialStatus writes recomputed trial flags back onto the user row.
// The values are deterministic for a given clock, so a duplicate write is
// harmless.
func (s *Storage) UpdateTrialStatus(ctx context.Context, userUID string, isActive bool, daysRemaining int) error {
	const op = "storage.UpdateTrialStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_trial_active = $1,
			      trial_days_remaining = $2
			  WHERE uid = $3`
	_, err := s.DB.ExecContext(ctx, query, isActive, daysRemaining, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindTrialsExpiringToday finds users whose trial ends today, for the
// expiry notification worker.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindTrialsExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE trial_end_date::DATE = CURRENT_DATE;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var orgID sql.NullString
		var trialStart, trialEnd sql.NullTime
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.EmailVerified,
			&u.AccountType, &orgID, &u.SubscriptionType, &u.SubscriptionStatus,
			&trialStart, &trialEnd, &u.IsTrialActive, &u.TrialDaysRemaining); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if orgID.Valid {
			u.OrganizationID = &orgID.String
		}
		if trialStart.Valid {
			u.TrialStartDate = &trialStart.Time
		}
		if trialEnd.Valid {
			u.TrialEndDate = &trialEnd.Time
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
