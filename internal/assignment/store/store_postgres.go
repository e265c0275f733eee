package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"territory/internal/assignment/models"
	repmodels "territory/internal/rep/models"
	"territory/pkg/sentinel"
)

// Postgres implements Store on database/sql with lib/pq. Conflict handling
// rides on the assignments_zip_channel_key unique constraint.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const joinedColumns = `
	a.id, a.zip_code, a.channel, a.rep_id, a.created_at,
	r.id, r.first_name, r.last_name, r.email, r.phone, r.agency, r.channel, r.created_at
`

func (s *Postgres) ListByZip(ctx context.Context, zip string) ([]*models.WithRep, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM assignments a
		JOIN reps r ON r.id = a.rep_id
		WHERE a.zip_code = $1
	`
	rows, err := s.db.QueryContext(ctx, query, zip)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.WithRep
	for rows.Next() {
		joined, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, joined)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func (s *Postgres) GetByZipChannel(ctx context.Context, zip string, channel repmodels.Channel) (*models.WithRep, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM assignments a
		JOIN reps r ON r.id = a.rep_id
		WHERE a.zip_code = $1 AND a.channel = $2
	`
	joined, err := scanJoined(s.db.QueryRowContext(ctx, query, zip, string(channel)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return joined, nil
}

func (s *Postgres) Upsert(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, zip_code, channel, rep_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT assignments_zip_channel_key
		DO UPDATE SET rep_id = EXCLUDED.rep_id
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		assignment.ID, assignment.ZipCode, string(assignment.Channel), assignment.RepID,
	).Scan(&assignment.ID, &assignment.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

func (s *Postgres) BulkUpsert(ctx context.Context, assignments []*models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("INSERT INTO assignments (id, zip_code, channel, rep_id) VALUES ")
	for i, a := range assignments {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, a.ID, a.ZipCode, string(a.Channel), a.RepID)
	}
	sb.WriteString(" ON CONFLICT ON CONSTRAINT assignments_zip_channel_key DO UPDATE SET rep_id = EXCLUDED.rep_id")

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("bulk upsert assignments: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, zip string, channel repmodels.Channel) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE zip_code = $1 AND channel = $2`,
		zip, string(channel))
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJoined(row rowScanner) (*models.WithRep, error) {
	var (
		joined     models.WithRep
		rep        repmodels.Rep
		aChannel   string
		repChannel string
	)
	err := row.Scan(
		&joined.ID, &joined.ZipCode, &aChannel, &joined.RepID, &joined.CreatedAt,
		&rep.ID, &rep.FirstName, &rep.LastName, &rep.Email, &rep.Phone, &rep.Agency,
		&repChannel, &rep.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	joined.Channel = repmodels.Channel(aChannel)
	rep.Channel = repmodels.Channel(repChannel)
	joined.Rep = &rep
	return &joined, nil
}
