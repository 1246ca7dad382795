package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"urlmapper/internal/database"
	"urlmapper/internal/models"
)

type mappingRecord struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"`
	TargetURL string    `db:"target_url"`
	Visits    int64     `db:"visits"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *mappingRecord) ToURLMapping() *models.URLMapping {
	return &models.URLMapping{
		ID:        r.ID,
		Code:      r.Code,
		TargetURL: r.TargetURL,
		Visits:    r.Visits,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// URLRepository provides access to the url_mappings table.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create inserts a new mapping with a zero visit counter. The unique
// constraint on code is the collision detector for generated codes.
func (r *URLRepository) Create(ctx context.Context, code, targetURL string) (*models.URLMapping, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(mappingRecord)
	query := `INSERT INTO url_mappings(code, target_url)
		VALUES ($1, $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, code, targetURL)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create mapping record: %w", op, err)
	}

	return rec.ToURLMapping(), nil
}

// GetByTargetURL retrieves a mapping by exact target URL match.
func (r *URLRepository) GetByTargetURL(ctx context.Context, targetURL string) (*models.URLMapping, error) {
	const op = "database.postgres.URLRepository.GetByTargetURL"

	rec := new(mappingRecord)
	query := `SELECT * FROM url_mappings
		WHERE target_url = $1
		LIMIT 1`

	err := r.db.GetContext(ctx, rec, query, targetURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get mapping record: %w", op, err)
	}

	return rec.ToURLMapping(), nil
}

// Visit increments the visit counter for a code and returns the updated
// mapping. The increment happens in a single statement, so concurrent
// visits cannot overwrite each other with a stale read-modify-write.
func (r *URLRepository) Visit(ctx context.Context, code string) (*models.URLMapping, error) {
	const op = "database.postgres.URLRepository.Visit"

	rec := new(mappingRecord)
	query := `UPDATE url_mappings
		SET visits = visits + 1,
			updated_at = NOW()
		WHERE code = $1
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to record visit: %w", op, err)
	}

	return rec.ToURLMapping(), nil
}

// GetByCode retrieves a mapping by its short code without changing it.
func (r *URLRepository) GetByCode(ctx context.Context, code string) (*models.URLMapping, error) {
	const op = "database.postgres.URLRepository.GetByCode"

	rec := new(mappingRecord)
	query := `SELECT * FROM url_mappings
		WHERE code = $1`

	err := r.db.GetContext(ctx, rec, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get mapping record: %w", op, err)
	}

	return rec.ToURLMapping(), nil
}
