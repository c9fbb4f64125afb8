package storage

import (
	"context"
	"database/sql"

	"foodhub/food-svc/internal/domain"
)

const userColumns = `id, name, email, phone, password_hash, role, is_verified, preferred_language, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.IsVerified,
		&u.PreferredLanguage, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, is_verified, preferred_language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsVerified, u.PreferredLanguage,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if pqCode(err) == pqUniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		UPDATE users SET name = $1, phone = $2, preferred_language = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`, u.Name, u.Phone, u.PreferredLanguage, u.ID).Scan(&u.UpdatedAt)
	return notFound(err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
