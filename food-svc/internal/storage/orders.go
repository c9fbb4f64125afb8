package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_number, user_id, items, subtotal, delivery_fee, tax, discount,
	coupon_code, offer_id, total, payment_method, cod_type, delivery_type, delivery_address,
	branch_id, status, tracking, cancellation, rating, notes, actual_delivery_time, created_at, updated_at`

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o         domain.Order
		offerID   sql.NullInt64
		delivered sql.NullTime
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, jsonb(&o.Items), &o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Discount,
		&o.CouponCode, &offerID, &o.Total, &o.PaymentMethod, &o.CODType, &o.DeliveryType, jsonb(&o.DeliveryAddress),
		&o.BranchID, &o.Status, jsonb(&o.Tracking), jsonb(&o.Cancellation), jsonb(&o.Rating), &o.Notes, &delivered,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if offerID.Valid {
		o.OfferID = &offerID.Int64
	}
	if delivered.Valid {
		o.ActualDeliveryTime = &delivered.Time
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO orders (order_number, user_id, items, subtotal, delivery_fee, tax, discount,
			coupon_code, offer_id, total, payment_method, cod_type, delivery_type, delivery_address,
			branch_id, status, tracking, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.UserID, toJSON(o.Items), o.Subtotal, o.DeliveryFee, o.Tax, o.Discount,
		o.CouponCode, o.OfferID, o.Total, o.PaymentMethod, o.CODType, o.DeliveryType, nullJSON(o.DeliveryAddress),
		o.BranchID, o.Status, toJSON(o.Tracking), o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `SELECT `+orderColumns+` FROM orders`+clause+
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, entry domain.TrackingEntry, deliveredAt *time.Time) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
			tracking = tracking || $3::jsonb,
			actual_delivery_time = COALESCE(actual_delivery_time, $4),
			updated_at = NOW()
		WHERE id = $1`,
		id, entry.Status, toJSON([]domain.TrackingEntry{entry}), deliveredAt)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OrderRepository) Cancel(ctx context.Context, id int64, c domain.Cancellation, entry domain.TrackingEntry) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
			cancellation = $3,
			tracking = tracking || $4::jsonb,
			updated_at = NOW()
		WHERE id = $1`,
		id, entry.Status, toJSON(c), toJSON([]domain.TrackingEntry{entry}))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OrderRepository) SetRating(ctx context.Context, id int64, rating domain.Rating) (bool, error) {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET rating = $2, updated_at = NOW() WHERE id = $1 AND rating IS NULL`,
		id, toJSON(rating))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats counts orders per status. Revenue and the average order value leave
// out cancelled and refunded orders.
func (r *OrderRepository) Stats(ctx context.Context) (*domain.OrderStats, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.OrderStats{ByStatus: map[domain.OrderStatus]int{}}
	revenue := decimal.Zero
	paid := 0
	for rows.Next() {
		var (
			status domain.OrderStatus
			count  int
			sum    decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.TotalOrders += count
		if status == domain.StatusCancelled || status == domain.StatusRefunded {
			continue
		}
		revenue = revenue.Add(sum)
		paid += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.Revenue = revenue.Round(2).InexactFloat64()
	if paid > 0 {
		stats.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(paid))).Round(2).InexactFloat64()
	}
	return stats, nil
}

// RevenueSince sums order totals placed from since on, leaving out cancelled
// and refunded orders the same way the sales aggregates do.
func (r *OrderRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var sum decimal.Decimal
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1 AND status NOT IN ('cancelled', 'refunded')`, since).Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum.Round(2).InexactFloat64(), nil
}

func (r *OrderRepository) TopItemsSince(ctx context.Context, since time.Time, limit int) ([]domain.TopItem, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT (line->>'itemId')::bigint AS item_id,
			COALESCE(MAX(line->'name'->>'en'), '') AS name,
			SUM((line->>'quantity')::int) AS quantity
		FROM orders o, jsonb_array_elements(o.items) AS line
		WHERE o.created_at >= $1 AND o.status NOT IN ('cancelled', 'refunded')
		GROUP BY item_id
		ORDER BY quantity DESC, item_id
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.TopItem{}
	for rows.Next() {
		var t domain.TopItem
		if err := rows.Scan(&t.ItemID, &t.Name, &t.Quantity); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
