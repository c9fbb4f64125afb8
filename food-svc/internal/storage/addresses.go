package storage

import (
	"context"
	"database/sql"

	"foodhub/food-svc/internal/domain"
)

const addressColumns = `id, user_id, type, label, address, apartment, instructions,
	latitude, longitude, is_default, created_at, updated_at`

type AddressRepository struct {
	DB *sql.DB
}

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

func scanAddress(row rowScanner) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Label, &a.Address, &a.Apartment, &a.Instructions,
		&a.Latitude, &a.Longitude, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) List(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

// Get only finds addresses owned by userID.
func (r *AddressRepository) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	a, err := scanAddress(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *AddressRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// defaultConflict maps a hit on the one-default-per-user index.
func defaultConflict(err error) error {
	if pqCode(err) == pqUniqueViolation {
		return domain.ErrDefaultAddressTaken
	}
	return err
}

func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, type, label, address, apartment, instructions, latitude, longitude, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		a.UserID, a.Type, a.Label, a.Address, a.Apartment, a.Instructions, a.Latitude, a.Longitude, a.IsDefault,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return defaultConflict(err)
}

func (r *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		UPDATE addresses
		SET type = $1, label = $2, address = $3, apartment = $4, instructions = $5,
			latitude = $6, longitude = $7, is_default = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING created_at, updated_at`,
		a.Type, a.Label, a.Address, a.Apartment, a.Instructions,
		a.Latitude, a.Longitude, a.IsDefault, a.ID, a.UserID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return defaultConflict(notFound(err))
}

func (r *AddressRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AddressRepository) ClearDefault(ctx context.Context, userID int64) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID)
	return err
}

func (r *AddressRepository) SetDefault(ctx context.Context, userID, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return defaultConflict(err)
	}
	return requireAffected(res)
}

func (r *AddressRepository) PromoteLatest(ctx context.Context, userID int64) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx, `
		UPDATE addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id = (
			SELECT id FROM addresses WHERE user_id = $1
			ORDER BY updated_at DESC, id DESC
			LIMIT 1
		)`, userID)
	return err
}
