package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skyharbor/fleetops-api/internal/models"
)

// UserRepository provides account lookup across the four role tables plus
// refresh token and audit log persistence.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func roleTable(role models.Role) (string, error) {
	switch role {
	case models.RoleAdmin:
		return "admins", nil
	case models.RoleScheduler:
		return "schedulers", nil
	case models.RoleCrew:
		return "crew_members", nil
	case models.RoleEngineer:
		return "engineers", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

// FindAccount loads the account with the given email from the role's table.
// Returns sql.ErrNoRows when the email is unknown for that role.
func (r *UserRepository) FindAccount(ctx context.Context, role models.Role, email string) (*models.Account, error) {
	table, err := roleTable(role)
	if err != nil {
		return nil, err
	}
	columns := `email, name, phone, password_hash, last_login`
	if role == models.RoleCrew {
		columns += `, is_pilot`
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, columns, table)

	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, err
	}
	account.Role = role
	return &account, nil
}

// CreateAccount inserts a new account into the role's table.
func (r *UserRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	table, err := roleTable(account.Role)
	if err != nil {
		return err
	}
	var query string
	args := []interface{}{account.Email, account.Name, account.Phone, account.PasswordHash}
	if account.Role == models.RoleCrew {
		query = fmt.Sprintf(`INSERT INTO %s (email, name, phone, password_hash, is_pilot) VALUES ($1, $2, $3, $4, $5)`, table)
		args = append(args, account.IsPilot)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (email, name, phone, password_hash) VALUES ($1, $2, $3, $4)`, table)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s account %s: %w", account.Role, account.Email, err)
	}
	return nil
}

// UpdateLastLogin stamps the account's last successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, role models.Role, email string, at time.Time) error {
	table, err := roleTable(role)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET last_login = $1 WHERE email = $2`, table)
	if _, err := r.db.ExecContext(ctx, query, at, email); err != nil {
		return fmt.Errorf("update last login for %s %s: %w", role, email, err)
	}
	return nil
}

// CreateRefreshToken stores a refresh token record.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, email, role, token, expires_at, created_at, revoked, ip_address, user_agent)
	VALUES (:id, :email, :role, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token for %s: %w", token.Email, err)
	}
	return nil
}

// FindRefreshToken loads a refresh token by its opaque value.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, email, role, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
	FROM refresh_tokens WHERE token = $1`
	var record models.RefreshToken
	if err := r.db.GetContext(ctx, &record, query, token); err != nil {
		return nil, err
	}
	return &record, nil
}

// RevokeRefreshToken marks a single token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("revoke refresh token %s: %w", id, err)
	}
	return nil
}

// RevokeAllForAccount revokes every live token the account holds.
func (r *UserRepository) RevokeAllForAccount(ctx context.Context, role models.Role, email string, at time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1
	WHERE email = $2 AND role = $3 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, at, email, role); err != nil {
		return fmt.Errorf("revoke tokens for %s %s: %w", role, email, err)
	}
	return nil
}

// CreateAuditLog appends one audit record.
func (r *UserRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	const query = `INSERT INTO audit_logs (actor_email, actor_role, action, resource, resource_id, payload, ip_address, user_agent, created_at)
	VALUES (:actor_email, :actor_role, :action, :resource, :resource_id, :payload, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// CountCrewMembers returns the number of crew accounts.
func (r *UserRepository) CountCrewMembers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM crew_members`); err != nil {
		return 0, fmt.Errorf("count crew members: %w", err)
	}
	return count, nil
}

// CountEngineers returns the number of engineer accounts.
func (r *UserRepository) CountEngineers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM engineers`); err != nil {
		return 0, fmt.Errorf("count engineers: %w", err)
	}
	return count, nil
}

// CountSchedulers returns the number of scheduler accounts.
func (r *UserRepository) CountSchedulers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedulers`); err != nil {
		return 0, fmt.Errorf("count schedulers: %w", err)
	}
	return count, nil
}
