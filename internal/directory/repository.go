// Package directory stores the users, companies and partners that follow-up
// tasks reference.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userNotFoundMsg    = "user not found"
	companyNotFoundMsg = "company not found"
	partnerNotFoundMsg = "partner not found"
)

// User is an outreach user identified by mailbox address.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	LinkedIn       *string
	RelayAccountID *string
	CreatedAt      time.Time
}

// Company is an outreach target.
type Company struct {
	ID            uuid.UUID
	Name          string
	Website       *string
	ContactPerson string
	Email         string
	LinkedIn      *string
	CreatedAt     time.Time
}

// Partner receives forwarded introductions.
type Partner struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// Repository provides database operations for the directory.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new directory repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureUser returns the id for the given mailbox address, creating the user
// on first sight. An existing user's name and LinkedIn URL are kept.
func (r *Repository) EnsureUser(ctx context.Context, email, name, linkedIn string) (uuid.UUID, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return uuid.Nil, apperr.Validation("email is required")
	}
	if strings.TrimSpace(name) == "" {
		name = normalized
	}

	var linkedInValue *string
	if trimmed := strings.TrimSpace(linkedIn); trimmed != "" {
		linkedInValue = &trimmed
	}

	query := `
		INSERT INTO users (email, name, linkedin)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(NULLIF(users.name, ''), EXCLUDED.name),
			linkedin = COALESCE(users.linkedin, EXCLUDED.linkedin)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, normalized, strings.TrimSpace(name), linkedInValue).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ensure user: %w", err)
	}
	return id, nil
}

// GetUserByEmail fetches a user by mailbox address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `
		SELECT id, email, name, linkedin, unipile_id, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID, &user.Email, &user.Name, &user.LinkedIn, &user.RelayAccountID, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns all known users, oldest first. The scheduler uses this to
// enqueue periodic sweeps.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, linkedin, unipile_id, created_at FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, 16)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.LinkedIn, &user.RelayAccountID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetUserRelayAccount records the messaging relay account connected to a user.
func (r *Repository) SetUserRelayAccount(ctx context.Context, userID uuid.UUID, accountID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET unipile_id = NULLIF($2, '') WHERE id = $1`,
		userID, strings.TrimSpace(accountID),
	)
	if err != nil {
		return fmt.Errorf("set user relay account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// ListPartners returns all partners ordered by name.
func (r *Repository) ListPartners(ctx context.Context) ([]Partner, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, created_at FROM partners ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	partners := make([]Partner, 0, 16)
	for rows.Next() {
		var partner Partner
		if err := rows.Scan(&partner.ID, &partner.Name, &partner.Email, &partner.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}

// GetPartner fetches a partner by id.
func (r *Repository) GetPartner(ctx context.Context, id uuid.UUID) (Partner, error) {
	var partner Partner
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM partners WHERE id = $1`, id).
		Scan(&partner.ID, &partner.Name, &partner.Email, &partner.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Partner{}, apperr.NotFound(partnerNotFoundMsg)
		}
		return Partner{}, fmt.Errorf("get partner: %w", err)
	}
	return partner, nil
}

// FindCompany looks a company up by website domain first, then by exact name.
func (r *Repository) FindCompany(ctx context.Context, domain, name string) (Company, error) {
	domain = strings.TrimSpace(domain)
	name = strings.TrimSpace(name)
	if domain == "" && name == "" {
		return Company{}, apperr.Validation("domain or company name is required")
	}

	const columns = `id, name, website, contact_person, email, linkedin, created_at`

	if domain != "" {
		var company Company
		err := r.pool.QueryRow(ctx,
			`SELECT `+columns+` FROM companies WHERE website ILIKE '%' || $1 || '%' LIMIT 1`, domain).
			Scan(&company.ID, &company.Name, &company.Website, &company.ContactPerson,
				&company.Email, &company.LinkedIn, &company.CreatedAt)
		if err == nil {
			return company, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return Company{}, fmt.Errorf("find company by domain: %w", err)
		}
	}

	if name != "" {
		var company Company
		err := r.pool.QueryRow(ctx,
			`SELECT `+columns+` FROM companies WHERE name = $1 LIMIT 1`, name).
			Scan(&company.ID, &company.Name, &company.Website, &company.ContactPerson,
				&company.Email, &company.LinkedIn, &company.CreatedAt)
		if err == nil {
			return company, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return Company{}, fmt.Errorf("find company by name: %w", err)
		}
	}

	return Company{}, apperr.NotFound(companyNotFoundMsg)
}

// InsertCompany creates a company record.
func (r *Repository) InsertCompany(ctx context.Context, company Company) (Company, error) {
	query := `
		INSERT INTO companies (name, website, contact_person, email, linkedin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		company.Name, company.Website, company.ContactPerson, company.Email, company.LinkedIn,
	).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return Company{}, fmt.Errorf("insert company: %w", err)
	}
	return company, nil
}
