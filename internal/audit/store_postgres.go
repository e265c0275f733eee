package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store on the audit_log table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_log (id, user_id, username, user_full_name, action, table_name, record_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Username,
		entry.UserFullName,
		string(entry.Action),
		string(entry.TableName),
		entry.RecordID,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := `
		SELECT id, user_id, username, user_full_name, action, table_name, record_id, description, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry  Entry
			action string
			table  string
		)
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Username, &entry.UserFullName,
			&action, &table, &entry.RecordID, &entry.Description, &entry.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = Action(action)
		entry.TableName = Table(table)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, total, nil
}
