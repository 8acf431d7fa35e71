package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/platform/postgres"
	"helptoheat/internal/supplier/models"
	"helptoheat/pkg/platform/sentinel"
)

// PostgresStore persists suppliers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, is_disabled, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, supplier.ID, supplier.Name, supplier.IsDisabled, supplier.CreatedAt, supplier.ModifiedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	query := `SELECT id, name, is_disabled, created_at, modified_at FROM suppliers WHERE id = $1`
	return s.findOne(ctx, query, id)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	query := `SELECT id, name, is_disabled, created_at, modified_at FROM suppliers WHERE name = $1`
	return s.findOne(ctx, query, name)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&supplier.ID, &supplier.Name, &supplier.IsDisabled, &supplier.CreatedAt, &supplier.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, is_disabled, created_at, modified_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*models.Supplier
	for rows.Next() {
		var supplier models.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.IsDisabled, &supplier.CreatedAt, &supplier.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE suppliers SET is_disabled = $2, modified_at = $3 WHERE id = $1`, id, disabled, at)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
