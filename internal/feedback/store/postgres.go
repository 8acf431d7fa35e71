package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"helptoheat/internal/feedback/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Feedback) error {
	data, err := json.Marshal(f.Data)
	if err != nil {
		return fmt.Errorf("marshal feedback data: %w", err)
	}
	var sessionID uuid.NullUUID
	if f.SessionID != nil {
		sessionID = uuid.NullUUID{UUID: *f.SessionID, Valid: true}
	}
	query := `
		INSERT INTO feedback (id, session_id, page_name, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, f.ID, sessionID, f.PageName, data, f.CreatedAt); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, page_name, data, created_at FROM feedback ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		var (
			f         models.Feedback
			sessionID uuid.NullUUID
			data      []byte
		)
		if err := rows.Scan(&f.ID, &sessionID, &f.PageName, &data, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		if sessionID.Valid {
			id := sessionID.UUID
			f.SessionID = &id
		}
		if err := json.Unmarshal(data, &f.Data); err != nil {
			return nil, fmt.Errorf("unmarshal feedback data: %w", err)
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return out, nil
}
