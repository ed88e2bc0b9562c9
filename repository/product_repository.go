package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"iwingmobile-store/models"
)

const productColumns = `
	id, product_type, name, brand, model, category, subcategory, price,
	original_price, description, images, in_stock, stock_quantity, featured,
	rating_average, rating_count, tags, is_active, created_at
`

// sortColumns whitelists the sortBy values accepted from clients
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"rating":    "rating_average",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductRepository handles read-only catalog queries against Postgres
type ProductRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository
func NewProductRepository(conn *sql.DB, log *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:  conn,
		log: log.With(zap.String("component", "product_repository")),
	}
}

// buildFilterConditions builds the WHERE clause shared by the listing and count queries.
// Only active products of filter.Type are ever returned.
func buildFilterConditions(filter models.ProductFilter) (string, []interface{}) {
	conditions := []string{"is_active = true", "product_type = $1"}
	args := []interface{}{string(filter.Type)}
	argIndex := 2

	if filter.Brand != nil && *filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand ILIKE $%d", argIndex))
		args = append(args, "%"+likeEscaper.Replace(*filter.Brand)+"%")
		argIndex++
	}

	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", argIndex))
		args = append(args, *filter.Featured)
		argIndex++
	}

	if filter.InStock != nil {
		conditions = append(conditions, fmt.Sprintf("in_stock = $%d", argIndex))
		args = append(args, *filter.InStock)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%[1]d OR brand ILIKE $%[1]d OR model ILIKE $%[1]d OR description ILIKE $%[1]d)", argIndex))
		args = append(args, "%"+likeEscaper.Replace(strings.TrimSpace(*filter.Search))+"%")
	}

	return strings.Join(conditions, " AND "), args
}

// buildOrderBy returns the ORDER BY clause; unknown sort keys fall back to created_at
func buildOrderBy(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}

// Filter returns one page of products matching filter and the total match count.
// filter.Page and filter.Limit must already be normalized.
func (r *ProductRepository) Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	where, args := buildFilterConditions(filter)
	r.log.Debug("🔍 Filter: querying products", zap.String("type", string(filter.Type)), zap.Int("conditions", len(args)))

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Error("❌ Filter: Error counting products", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM products WHERE %s %s LIMIT $%d OFFSET $%d",
		productColumns, where, buildOrderBy(filter.SortBy, filter.SortOrder), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	products, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	r.log.Debug("✓ Filter: fetched products", zap.Int("count", len(products)), zap.Int("total", total))
	return products, total, nil
}

// Featured returns featured, active, in-stock products, newest first
func (r *ProductRepository) Featured(ctx context.Context, productType models.ProductType, limit int) ([]models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE product_type = $1 AND featured = true AND is_active = true AND in_stock = true
		ORDER BY created_at DESC
		LIMIT $2
	`, productColumns)
	return r.query(ctx, query, string(productType), limit)
}

// GetByID returns an active product by id
func (r *ProductRepository) GetByID(ctx context.Context, productType models.ProductType, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidProductID
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND product_type = $2 AND is_active = true`, productColumns)
	products, err := r.query(ctx, query, id, string(productType))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

// Categories returns the distinct categories of active products, sorted
func (r *ProductRepository) Categories(ctx context.Context, productType models.ProductType) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM products
		WHERE product_type = $1 AND is_active = true AND category <> ''
		ORDER BY category
	`, string(productType))
	if err != nil {
		r.log.Error("❌ Categories: Error querying categories", zap.Error(err))
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("❌ Error querying products", zap.Error(err))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	// pgtype.Map caches scan plans and is not safe for concurrent use
	typeMap := pgtype.NewMap()
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, typeMap)
		if err != nil {
			r.log.Error("❌ Error scanning product", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("❌ Error iterating products", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(rows *sql.Rows, typeMap *pgtype.Map) (models.Product, error) {
	var p models.Product
	var productType string
	var originalPrice sql.NullFloat64
	var images []byte
	var tags []string

	err := rows.Scan(
		&p.ID,
		&productType,
		&p.Name,
		&p.Brand,
		&p.Model,
		&p.Category,
		&p.Subcategory,
		&p.Price,
		&originalPrice,
		&p.Description,
		&images,
		&p.InStock,
		&p.StockQuantity,
		&p.Featured,
		&p.RatingAverage,
		&p.RatingCount,
		typeMap.SQLScanner(&tags),
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Type = models.ProductType(productType)
	if originalPrice.Valid {
		p.OriginalPrice = originalPrice.Float64
	}
	p.Tags = tags

	p.Images = []models.ProductImage{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return models.Product{}, fmt.Errorf("failed to decode images for product %s: %w", p.ID, err)
		}
	}

	return p, nil
}
