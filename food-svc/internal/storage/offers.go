package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/lib/pq"
)

const offerColumns = `id, title, description, discount_type, value, start_date, end_date, is_active,
	applicable_items, applicable_categories, coupon_code, min_order_amount, max_discount_amount,
	usage_limit_per_user, total_usage_limit, usage_count, priority, is_featured, image_url, created_at, updated_at`

type OfferRepository struct {
	DB *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{DB: db}
}

func scanOffer(row rowScanner) (*domain.Offer, error) {
	var (
		o           domain.Offer
		maxDiscount sql.NullFloat64
	)
	err := row.Scan(&o.ID, jsonb(&o.Title), jsonb(&o.Description), &o.DiscountType, &o.Value, &o.StartDate, &o.EndDate, &o.IsActive,
		pq.Array(&o.ApplicableItems), pq.Array(&o.ApplicableCategories), &o.CouponCode, &o.MinOrderAmount, &maxDiscount,
		&o.UsageLimitPerUser, &o.TotalUsageLimit, &o.UsageCount, &o.Priority, &o.IsFeatured, &o.ImageURL, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if maxDiscount.Valid {
		o.MaxDiscountAmount = &maxDiscount.Float64
	}
	return &o, nil
}

func (r *OfferRepository) queryOffers(ctx context.Context, query string, args ...any) ([]domain.Offer, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO offers (title, description, discount_type, value, start_date, end_date, is_active,
			applicable_items, applicable_categories, coupon_code, min_order_amount, max_discount_amount,
			usage_limit_per_user, total_usage_limit, priority, is_featured, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, usage_count, created_at, updated_at`,
		toJSON(o.Title), toJSON(nonNilText(o.Description)), o.DiscountType, o.Value, o.StartDate, o.EndDate, o.IsActive,
		pq.Array(idSet(o.ApplicableItems)), pq.Array(idSet(o.ApplicableCategories)), o.CouponCode, o.MinOrderAmount, o.MaxDiscountAmount,
		o.UsageLimitPerUser, o.TotalUsageLimit, o.Priority, o.IsFeatured, o.ImageURL,
	).Scan(&o.ID, &o.UsageCount, &o.CreatedAt, &o.UpdatedAt)
	return couponConflict(err)
}

func (r *OfferRepository) Get(ctx context.Context, id int64) (*domain.Offer, error) {
	o, err := scanOffer(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		UPDATE offers
		SET title = $1, description = $2, discount_type = $3, value = $4, start_date = $5, end_date = $6,
			is_active = $7, applicable_items = $8, applicable_categories = $9, coupon_code = $10,
			min_order_amount = $11, max_discount_amount = $12, usage_limit_per_user = $13,
			total_usage_limit = $14, priority = $15, is_featured = $16, image_url = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING usage_count, created_at, updated_at`,
		toJSON(o.Title), toJSON(nonNilText(o.Description)), o.DiscountType, o.Value, o.StartDate, o.EndDate,
		o.IsActive, pq.Array(idSet(o.ApplicableItems)), pq.Array(idSet(o.ApplicableCategories)), o.CouponCode,
		o.MinOrderAmount, o.MaxDiscountAmount, o.UsageLimitPerUser,
		o.TotalUsageLimit, o.Priority, o.IsFeatured, o.ImageURL, o.ID,
	).Scan(&o.UsageCount, &o.CreatedAt, &o.UpdatedAt)
	return couponConflict(notFound(err))
}

func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OfferRepository) List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.ActiveAt != nil {
		args = append(args, *filter.ActiveAt)
		where = append(where, fmt.Sprintf("is_active AND start_date <= $%d AND end_date >= $%d", len(args), len(args)))
	}
	if filter.FeaturedOnly {
		where = append(where, "is_featured")
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	offers, err := r.queryOffers(ctx, `SELECT `+offerColumns+` FROM offers`+clause+
		fmt.Sprintf(" ORDER BY is_featured DESC, priority DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *OfferRepository) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	o, err := scanOffer(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE coupon_code = $1`, code))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

// ListAutomatic returns the running offers that need no coupon code.
func (r *OfferRepository) ListAutomatic(ctx context.Context, at time.Time) ([]domain.Offer, error) {
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		WHERE coupon_code = '' AND is_active AND start_date <= $1 AND end_date >= $1
		ORDER BY priority DESC, id`, at)
}

func (r *OfferRepository) LockOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	o, err := scanOffer(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *OfferRepository) CountUserUsage(ctx context.Context, offerID, userID int64) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM offer_usages WHERE offer_id = $1 AND user_id = $2`, offerID, userID).Scan(&n)
	return n, err
}

func (r *OfferRepository) RecordUsage(ctx context.Context, u domain.OfferUsage) error {
	q := conn(ctx, r.DB)
	if _, err := q.ExecContext(ctx, `
		INSERT INTO offer_usages (offer_id, user_id, order_id, discount, used_at)
		VALUES ($1, $2, $3, $4, $5)`, u.OfferID, u.UserID, u.OrderID, u.Discount, u.UsedAt); err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE offers SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`, u.OfferID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OfferRepository) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT o.id, COALESCE(o.title->>'en', ''), o.coupon_code,
			COUNT(u.id), COUNT(DISTINCT u.user_id), COALESCE(SUM(u.discount), 0)
		FROM offers o
		LEFT JOIN offer_usages u ON u.offer_id = o.id
		GROUP BY o.id
		ORDER BY COUNT(u.id) DESC, o.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.OfferStats{}
	for rows.Next() {
		var s domain.OfferStats
		if err := rows.Scan(&s.OfferID, &s.Title, &s.CouponCode, &s.Uses, &s.UniqueUsers, &s.TotalDiscount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func couponConflict(err error) error {
	if pqCode(err) == pqUniqueViolation {
		return domain.NewValidationError("couponCode", "is already used by another offer")
	}
	return err
}

func idSet(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
