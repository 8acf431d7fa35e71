package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/platform/postgres"
	"helptoheat/internal/referral/models"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/platform/tx"
)

const selectReferral = `
	SELECT r.id, r.referral_id, r.session_id, r.supplier_id, s.name, r.data,
	       r.referral_download_id, r.created_at, r.modified_at
	FROM referrals r
	JOIN suppliers s ON s.id = r.supplier_id
`

// PostgresStore persists referrals and download batches.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the referral; referral_id comes from the BIGSERIAL column.
func (s *PostgresStore) Create(ctx context.Context, referral *models.Referral) error {
	data, err := json.Marshal(referral.Data)
	if err != nil {
		return fmt.Errorf("marshal referral data: %w", err)
	}
	query := `
		INSERT INTO referrals (id, session_id, supplier_id, data, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING referral_id
	`
	err = tx.Conn(ctx, s.db).QueryRowContext(ctx, query,
		referral.ID, referral.SessionID, referral.SupplierID, data, referral.CreatedAt, referral.ModifiedAt,
	).Scan(&referral.ReferralID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Referral, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx, selectReferral+` WHERE r.session_id = $1`, sessionID)
	referral, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	return referral, nil
}

func (s *PostgresStore) MostRecentByUPRN(ctx context.Context, uprn string, since time.Time) (*models.Referral, error) {
	query := selectReferral + `
		WHERE r.data->>'uprn' = $1 AND r.created_at >= $2
		ORDER BY r.created_at DESC
		LIMIT 1
	`
	referral, err := scanReferral(tx.Conn(ctx, s.db).QueryRowContext(ctx, query, uprn, since))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find duplicate referral: %w", err)
	}
	return referral, nil
}

func (s *PostgresStore) CountUnread(ctx context.Context, supplierID uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM referrals WHERE supplier_id = $1 AND referral_download_id IS NULL`
	if err := tx.Conn(ctx, s.db).QueryRowContext(ctx, query, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread referrals: %w", err)
	}
	return n, nil
}

// CreateDownload inserts the batch and claims the supplier's unread
// referrals in one transaction.
func (s *PostgresStore) CreateDownload(ctx context.Context, download *models.Download) ([]*models.Referral, error) {
	var out []*models.Referral
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		conn := tx.Conn(ctx, s.db)
		_, err := conn.ExecContext(ctx, `
			INSERT INTO referral_downloads (id, supplier_id, file_name, last_downloaded_by, created_at, modified_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, download.ID, download.SupplierID, download.FileName, download.LastDownloadedBy, download.CreatedAt, download.ModifiedAt)
		if err != nil {
			return fmt.Errorf("insert referral download: %w", err)
		}
		_, err = conn.ExecContext(ctx, `
			UPDATE referrals SET referral_download_id = $1, modified_at = $2
			WHERE supplier_id = $3 AND referral_download_id IS NULL
		`, download.ID, download.CreatedAt, download.SupplierID)
		if err != nil {
			return fmt.Errorf("claim referrals: %w", err)
		}
		out, err = s.ListByDownload(ctx, download.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindDownload(ctx context.Context, id uuid.UUID) (*models.Download, error) {
	query := `
		SELECT id, supplier_id, file_name, last_downloaded_by, created_at, modified_at
		FROM referral_downloads WHERE id = $1
	`
	var d models.Download
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.SupplierID, &d.FileName, &d.LastDownloadedBy, &d.CreatedAt, &d.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find referral download: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) ListDownloads(ctx context.Context, supplierID uuid.UUID) ([]*models.Download, error) {
	query := `
		SELECT id, supplier_id, file_name, last_downloaded_by, created_at, modified_at
		FROM referral_downloads WHERE supplier_id = $1
		ORDER BY created_at DESC
	`
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list referral downloads: %w", err)
	}
	defer rows.Close()

	var out []*models.Download
	for rows.Next() {
		var d models.Download
		if err := rows.Scan(&d.ID, &d.SupplierID, &d.FileName, &d.LastDownloadedBy, &d.CreatedAt, &d.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan referral download: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referral downloads: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListByDownload(ctx context.Context, downloadID uuid.UUID) ([]*models.Referral, error) {
	return s.list(ctx, selectReferral+` WHERE r.referral_download_id = $1 ORDER BY r.created_at, r.referral_id`, downloadID)
}

func (s *PostgresStore) TouchDownload(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE referral_downloads SET last_downloaded_by = $2, modified_at = $3 WHERE id = $1`, id, by, at)
	if err != nil {
		return fmt.Errorf("update referral download: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update referral download: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Referral, error) {
	return s.list(ctx, selectReferral+` WHERE r.created_at >= $1 AND r.created_at < $2 ORDER BY r.created_at, r.referral_id`, from, to)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Referral, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()

	var out []*models.Referral
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		out = append(out, referral)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referrals: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferral(row rowScanner) (*models.Referral, error) {
	var (
		r          models.Referral
		data       []byte
		downloadID uuid.NullUUID
	)
	err := row.Scan(&r.ID, &r.ReferralID, &r.SessionID, &r.SupplierID, &r.SupplierName, &data,
		&downloadID, &r.CreatedAt, &r.ModifiedAt)
	if err != nil {
		return nil, err
	}
	if downloadID.Valid {
		id := downloadID.UUID
		r.DownloadID = &id
	}
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("unmarshal referral data: %w", err)
	}
	return &r, nil
}
