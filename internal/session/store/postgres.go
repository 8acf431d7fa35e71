package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"helptoheat/internal/questionnaire"
	"helptoheat/internal/session/models"
	"helptoheat/pkg/platform/sentinel"
)

// PostgresStore persists answers in the answers table. Pure I/O.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, answer *models.Answer) error {
	data, err := json.Marshal(answer.Data)
	if err != nil {
		return fmt.Errorf("marshal answer data: %w", err)
	}
	query := `
		INSERT INTO answers (id, session_id, page_name, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, answer.ID, answer.SessionID, string(answer.PageName), data, answer.CreatedAt); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, sessionID uuid.UUID, page questionnaire.Page) (*models.Answer, error) {
	query := `
		SELECT id, session_id, page_name, data, created_at
		FROM answers
		WHERE session_id = $1 AND page_name = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	answer, err := scanAnswer(s.db.QueryRowContext(ctx, query, sessionID, string(page)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get latest answer: %w", err)
	}
	return answer, nil
}

func (s *PostgresStore) List(ctx context.Context, sessionID uuid.UUID) ([]*models.Answer, error) {
	query := `
		SELECT id, session_id, page_name, data, created_at
		FROM answers
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []*models.Answer
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (*models.Answer, error) {
	var (
		answer models.Answer
		page   string
		data   []byte
	)
	if err := row.Scan(&answer.ID, &answer.SessionID, &page, &data, &answer.CreatedAt); err != nil {
		return nil, err
	}
	answer.PageName = questionnaire.Page(page)
	if err := json.Unmarshal(data, &answer.Data); err != nil {
		return nil, fmt.Errorf("unmarshal answer data: %w", err)
	}
	return &answer, nil
}
