package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iwingmobile-store/db"
	"iwingmobile-store/models"
)

const reviewColumns = `
	id, product_id, product_type, product_name, rating, title, comment,
	user_name, user_email, status, created_at, updated_at
`

// sqliteTimeLayout sorts lexically in time order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type reviewQueries struct {
	listApproved string
	insert       string
	hasReviewed  string
}

var reviewQueriesByDialect = map[db.Dialect]reviewQueries{
	db.Postgres: {
		listApproved: `SELECT ` + reviewColumns + ` FROM product_reviews
			WHERE product_id = $1 AND status = 'approved'
			ORDER BY created_at DESC, id`,
		insert: `INSERT INTO product_reviews (` + reviewColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (product_id, user_email) DO NOTHING`,
		hasReviewed: `SELECT EXISTS (SELECT 1 FROM product_reviews WHERE product_id = $1 AND user_email = $2)`,
	},
	db.SQLite: {
		listApproved: `SELECT ` + reviewColumns + ` FROM product_reviews
			WHERE product_id = ? AND status = 'approved'
			ORDER BY created_at DESC, id`,
		insert: `INSERT INTO product_reviews (` + reviewColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (product_id, user_email) DO NOTHING`,
		hasReviewed: `SELECT EXISTS (SELECT 1 FROM product_reviews WHERE product_id = ? AND user_email = ?)`,
	},
}

// ReviewRepository handles database operations for product reviews
type ReviewRepository struct {
	db      *sql.DB
	dialect db.Dialect
	queries reviewQueries
	log     *zap.Logger
}

// Ensure ReviewRepository implements ReviewRepositoryInterface
var _ ReviewRepositoryInterface = (*ReviewRepository)(nil)

// NewReviewRepository creates a new ReviewRepository for the given dialect
func NewReviewRepository(conn *sql.DB, dialect db.Dialect, log *zap.Logger) (*ReviewRepository, error) {
	queries, ok := reviewQueriesByDialect[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported review dialect %q", dialect)
	}
	return &ReviewRepository{
		db:      conn,
		dialect: dialect,
		queries: queries,
		log:     log.With(zap.String("component", "review_repository"), zap.String("dialect", string(dialect))),
	}, nil
}

// ListApproved returns the approved reviews of a product, newest first
func (r *ReviewRepository) ListApproved(ctx context.Context, productID string) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, r.queries.listApproved, productID)
	if err != nil {
		r.log.Error("❌ ListApproved: Error querying reviews", zap.String("productId", productID), zap.Error(err))
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		var productType, status string
		var createdAt, updatedAt scannedTime
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&productType,
			&rv.ProductName,
			&rv.Rating,
			&rv.Title,
			&rv.Comment,
			&rv.UserName,
			&rv.UserEmail,
			&status,
			&createdAt,
			&updatedAt,
		); err != nil {
			r.log.Error("❌ ListApproved: Error scanning review", zap.Error(err))
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rv.ProductType = models.ProductType(productType)
		rv.Status = models.ReviewStatus(status)
		rv.CreatedAt = createdAt.Time
		rv.UpdatedAt = updatedAt.Time
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}

// Create inserts review. ID must be a UUID.
func (r *ReviewRepository) Create(ctx context.Context, review models.Review) error {
	if _, err := uuid.Parse(review.ID); err != nil {
		return fmt.Errorf("review id %q is not a UUID: %w", review.ID, err)
	}

	res, err := r.db.ExecContext(ctx, r.queries.insert,
		review.ID,
		review.ProductID,
		string(review.ProductType),
		review.ProductName,
		review.Rating,
		review.Title,
		review.Comment,
		review.UserName,
		review.UserEmail,
		string(review.Status),
		r.timeArg(review.CreatedAt),
		r.timeArg(review.UpdatedAt),
	)
	if err != nil {
		r.log.Error("❌ Create: Error inserting review", zap.String("productId", review.ProductID), zap.Error(err))
		return fmt.Errorf("failed to insert review: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read inserted rows: %w", err)
	}
	if n == 0 {
		return ErrAlreadyReviewed
	}

	r.log.Info("✅ Create: Review stored", zap.String("id", review.ID), zap.String("productId", review.ProductID))
	return nil
}

// HasReviewed reports whether email has reviewed the product, in any status
func (r *ReviewRepository) HasReviewed(ctx context.Context, productID, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, r.queries.hasReviewed, productID, email).Scan(&exists); err != nil {
		r.log.Error("❌ HasReviewed: Error checking review", zap.String("productId", productID), zap.Error(err))
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return exists, nil
}

func (r *ReviewRepository) timeArg(t time.Time) interface{} {
	if r.dialect == db.SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// scannedTime reads a timestamp stored natively (Postgres) or as text (SQLite)
type scannedTime struct {
	time.Time
}

func (s *scannedTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		s.Time = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (s *scannedTime) parse(v string) error {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", v, err)
	}
	s.Time = t.UTC()
	return nil
}
