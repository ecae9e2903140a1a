package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventconnect/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (email, first_name, last_name, password_hash, phone, organization, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		p.Email, p.FirstName, p.LastName, p.PasswordHash, p.Phone, nullString(p.Organization), p.Role.ID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return mapUniqueViolation(err)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `
		SELECT p.id, p.email, p.first_name, p.last_name, p.password_hash, p.phone, p.organization,
		       p.created_at, p.updated_at, r.id, r.name
		FROM profiles p
		INNER JOIN roles r ON r.id = p.role_id
		WHERE p.email = $1
	`
	p := &domain.Profile{Role: &domain.Role{}}
	var org sql.NullString
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.PasswordHash, &p.Phone, &org,
		&p.CreatedAt, &p.UpdatedAt, &p.Role.ID, &p.Role.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Organization = org.String
	return p, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
