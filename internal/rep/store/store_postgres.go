package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"territory/internal/rep/models"
	"territory/pkg/sentinel"
)

// Postgres implements Store on database/sql with lib/pq.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const repColumns = "id, first_name, last_name, email, phone, agency, channel, created_at"

func (s *Postgres) List(ctx context.Context) ([]*models.Rep, error) {
	query := `SELECT ` + repColumns + ` FROM reps ORDER BY last_name, first_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reps: %w", err)
	}
	defer rows.Close()

	var reps []*models.Rep
	for rows.Next() {
		rep, err := scanRep(rows)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reps: %w", err)
	}
	return reps, nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*models.Rep, error) {
	query := `SELECT ` + repColumns + ` FROM reps WHERE id = $1`

	rep, err := scanRep(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Postgres) Create(ctx context.Context, rep *models.Rep) error {
	query := `
		INSERT INTO reps (id, first_name, last_name, email, phone, agency, channel)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		rep.ID, rep.FirstName, rep.LastName, rep.Email,
		rep.Phone, rep.Agency, string(rep.Channel),
	).Scan(&rep.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert rep: %w", err)
	}
	return nil
}

func (s *Postgres) BulkCreate(ctx context.Context, reps []*models.Rep) error {
	if len(reps) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("INSERT INTO reps (id, first_name, last_name, email, phone, agency, channel) VALUES ")
	for i, rep := range reps {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, rep.ID, rep.FirstName, rep.LastName, rep.Email,
			rep.Phone, rep.Agency, string(rep.Channel))
	}

	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("bulk insert reps: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, rep *models.Rep) error {
	query := `
		UPDATE reps
		SET first_name = $2, last_name = $3, email = $4, phone = $5, agency = $6, channel = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		rep.ID, rep.FirstName, rep.LastName, rep.Email,
		rep.Phone, rep.Agency, string(rep.Channel),
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update rep: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rep rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rep: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rep rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRep(row rowScanner) (*models.Rep, error) {
	var (
		rep     models.Rep
		channel string
	)
	err := row.Scan(&rep.ID, &rep.FirstName, &rep.LastName, &rep.Email,
		&rep.Phone, &rep.Agency, &channel, &rep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan rep: %w", err)
	}
	rep.Channel = models.Channel(channel)
	return &rep, nil
}

// isUniqueViolation reports whether err is a postgres unique_violation
// (class 23505), the signal that an email is already taken.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
