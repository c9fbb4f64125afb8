package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"foodhub/food-svc/internal/domain"

	"github.com/lib/pq"
)

// searchVector must match the expression of food_items_search_idx.
const searchVector = `to_tsvector('simple',
        coalesce(name->>'en', '') || ' ' || coalesce(name->>'es', '') || ' ' ||
        coalesce(name->>'ca', '') || ' ' || coalesce(name->>'ar', '') || ' ' ||
        coalesce(description->>'en', ''))`

const categoryColumns = `id, name, description, image_url, sort_order, is_active, created_at, updated_at`

const itemColumns = `id, name, description, price, original_price, category_id, image_url,
	sizes, extras, addons, ingredients, stock_quantity, low_stock_threshold, total_sold,
	is_active, is_available, available_from, available_until, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, jsonb(&c.Name), jsonb(&c.Description), &c.ImageURL, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanItem(row rowScanner) (*domain.FoodItem, error) {
	var it domain.FoodItem
	var original sql.NullFloat64
	err := row.Scan(&it.ID, jsonb(&it.Name), jsonb(&it.Description), &it.Price, &original, &it.CategoryID, &it.ImageURL,
		jsonb(&it.Sizes), jsonb(&it.Extras), jsonb(&it.Addons), jsonb(&it.Ingredients),
		&it.StockQuantity, &it.LowStockThreshold, &it.TotalSold,
		&it.IsActive, &it.IsAvailable, &it.AvailableFrom, &it.AvailableUntil, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		it.OriginalPrice = &original.Float64
	}
	return &it, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO categories (name, description, image_url, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		toJSON(c.Name), toJSON(nonNilText(c.Description)), c.ImageURL, c.SortOrder, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CatalogRepository) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE $1 OR is_active
		ORDER BY sort_order, id`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := scanCategory(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		UPDATE categories
		SET name = $1, description = $2, sort_order = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING image_url, created_at, updated_at`,
		toJSON(c.Name), toJSON(nonNilText(c.Description)), c.SortOrder, c.IsActive, c.ID,
	).Scan(&c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	return notFound(err)
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return domain.NewValidationError("category", "still has food items")
		}
		return err
	}
	return requireAffected(res)
}

func (r *CatalogRepository) UpdateCategoryImage(ctx context.Context, id int64, url string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE categories SET image_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CatalogRepository) CreateItem(ctx context.Context, item *domain.FoodItem) error {
	normalizeOptions(item)
	return conn(ctx, r.DB).QueryRowContext(ctx, `
		INSERT INTO food_items (name, description, price, original_price, category_id, image_url,
			sizes, extras, addons, ingredients, stock_quantity, low_stock_threshold,
			is_active, is_available, available_from, available_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, total_sold, created_at, updated_at`,
		toJSON(item.Name), toJSON(nonNilText(item.Description)), item.Price, item.OriginalPrice, item.CategoryID, item.ImageURL,
		toJSON(item.Sizes), toJSON(item.Extras), toJSON(item.Addons), toJSON(item.Ingredients),
		item.StockQuantity, item.LowStockThreshold,
		item.IsActive, item.IsAvailable, item.AvailableFrom, item.AvailableUntil,
	).Scan(&item.ID, &item.TotalSold, &item.CreatedAt, &item.UpdatedAt)
}

func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	it, err := scanItem(conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM food_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

func (r *CatalogRepository) GetItems(ctx context.Context, ids []int64) (map[int64]*domain.FoodItem, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT `+itemColumns+` FROM food_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64]*domain.FoodItem, len(ids))
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items[it.ID] = it
	}
	return items, rows.Err()
}

func (r *CatalogRepository) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !filter.IncludeHidden {
		where = append(where, "is_active")
	}
	if filter.AvailableOnly {
		where = append(where, "is_available")
	}
	if filter.CategoryID > 0 {
		add("category_id = $%d", filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add(searchVector+" @@ plainto_tsquery('simple', $%d)", s)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM food_items`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `SELECT `+itemColumns+` FROM food_items`+clause+
		fmt.Sprintf(" ORDER BY category_id, id LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.FoodItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, total, rows.Err()
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, item *domain.FoodItem) error {
	normalizeOptions(item)
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		UPDATE food_items
		SET name = $1, description = $2, price = $3, original_price = $4, category_id = $5,
			sizes = $6, extras = $7, addons = $8, ingredients = $9,
			stock_quantity = $10, low_stock_threshold = $11, is_active = $12, is_available = $13,
			available_from = $14, available_until = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING image_url, total_sold, created_at, updated_at`,
		toJSON(item.Name), toJSON(nonNilText(item.Description)), item.Price, item.OriginalPrice, item.CategoryID,
		toJSON(item.Sizes), toJSON(item.Extras), toJSON(item.Addons), toJSON(item.Ingredients),
		item.StockQuantity, item.LowStockThreshold, item.IsActive, item.IsAvailable,
		item.AvailableFrom, item.AvailableUntil, item.ID,
	).Scan(&item.ImageURL, &item.TotalSold, &item.CreatedAt, &item.UpdatedAt)
	return notFound(err)
}

// DeleteItem hides the item instead of removing the row; past orders keep
// their snapshots either way.
func (r *CatalogRepository) DeleteItem(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE food_items SET is_active = FALSE, is_available = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CatalogRepository) UpdateItemImage(ctx context.Context, id int64, url string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE food_items SET image_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CatalogRepository) LowStock(ctx context.Context) ([]domain.FoodItem, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM food_items
		WHERE is_active AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.FoodItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) DecrementStock(ctx context.Context, id int64, qty int, strict bool) (int, error) {
	var deducted int
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		WITH locked AS (
			SELECT id, stock_quantity FROM food_items WHERE id = $1 FOR UPDATE
		)
		UPDATE food_items f
		SET stock_quantity = GREATEST(f.stock_quantity - $2, 0),
			total_sold = f.total_sold + LEAST(locked.stock_quantity, $2),
			updated_at = NOW()
		FROM locked
		WHERE f.id = locked.id AND ($3 = FALSE OR locked.stock_quantity >= $2)
		RETURNING locked.stock_quantity - f.stock_quantity`, id, qty, strict).Scan(&deducted)
	if err == nil {
		return deducted, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	var exists bool
	if err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM food_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, fmt.Errorf("item %d: %w", id, domain.ErrInsufficientStock)
}

func (r *CatalogRepository) RestoreStock(ctx context.Context, id int64, qty int) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `
		UPDATE food_items
		SET stock_quantity = stock_quantity + $2,
			total_sold = GREATEST(total_sold - $2, 0),
			updated_at = NOW()
		WHERE id = $1`, id, qty)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func nonNilText(t domain.LocalizedText) domain.LocalizedText {
	if t == nil {
		return domain.LocalizedText{}
	}
	return t
}

func normalizeOptions(item *domain.FoodItem) {
	if item.Sizes == nil {
		item.Sizes = []domain.SizeOption{}
	}
	if item.Extras == nil {
		item.Extras = []domain.Extra{}
	}
	if item.Addons == nil {
		item.Addons = []domain.Addon{}
	}
	if item.Ingredients == nil {
		item.Ingredients = []domain.Ingredient{}
	}
}
