package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"helptoheat/internal/platform/postgres"
	"helptoheat/internal/portal/models"
	"helptoheat/pkg/platform/sentinel"
)

// PostgresStore persists portal users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectUser = `SELECT id, email, full_name, role, supplier_id, created_at FROM portal_users`

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO portal_users (id, email, full_name, role, supplier_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.FullName, string(user.Role), nullUUID(user.SupplierID), user.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert portal user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find portal user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) List(ctx context.Context, supplierID *uuid.UUID) ([]*models.User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if supplierID == nil {
		rows, err = s.db.QueryContext(ctx, selectUser+` WHERE supplier_id IS NULL ORDER BY email`)
	} else {
		rows, err = s.db.QueryContext(ctx, selectUser+` WHERE supplier_id = $1 ORDER BY email`, *supplierID)
	}
	if err != nil {
		return nil, fmt.Errorf("list portal users: %w", err)
	}
	defer rows.Close()

	out := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portal user: %w", err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portal users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE portal_users SET role = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("update portal user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update portal user: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user     models.User
		role     string
		supplier uuid.NullUUID
	)
	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &role, &supplier, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	if supplier.Valid {
		id := supplier.UUID
		user.SupplierID = &id
	}
	return &user, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
