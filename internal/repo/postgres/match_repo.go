package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
)

const matchColumns = `
	id,
	user_a,
	user_b,
	cycle_start,
	response_deadline,
	result_date,
	status,
	response_a,
	response_b,
	created_at`

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Create inserts a waiting match unless either user is already paired in
// the same cycle.
func (r *MatchRepo) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errNoPool
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	var created model.Match
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, `
SELECT 1
FROM matches
WHERE cycle_start = $1::date
	AND (user_a IN ($2, $3) OR user_b IN ($2, $3))
LIMIT 1
FOR UPDATE
`, m.CycleDate(), m.UserA, m.UserB).Scan(&one)
		switch {
		case err == nil:
			return model.ErrAlreadyPaired
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("lookup cycle pairing: %w", err)
		}

		row := tx.QueryRow(ctx, `
INSERT INTO matches (
	id,
	user_a,
	user_b,
	cycle_start,
	response_deadline,
	result_date,
	status,
	created_at
) VALUES ($1, $2, $3, $4::date, $5, $6, $7, NOW())
RETURNING`+matchColumns,
			m.ID,
			m.UserA,
			m.UserB,
			m.CycleDate(),
			m.ResponseDeadline.UTC(),
			m.ResultDate.UTC(),
			string(enums.MatchStatusWaiting),
		)

		created, err = scanMatch(row)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return model.ErrAlreadyPaired
			}
			return fmt.Errorf("insert match: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Match{}, err
	}
	return created, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errNoPool
	}

	m, err := scanMatch(r.pool.QueryRow(ctx, `SELECT`+matchColumns+`
FROM matches
WHERE id = $1
`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, model.ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

// CurrentForUser returns the latest match of userID whose cycle starts on or
// after since (a local calendar day).
func (r *MatchRepo) CurrentForUser(ctx context.Context, userID uuid.UUID, since string) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errNoPool
	}

	m, err := scanMatch(r.pool.QueryRow(ctx, `SELECT`+matchColumns+`
FROM matches
WHERE (user_a = $1 OR user_b = $1)
	AND cycle_start >= $2::date
ORDER BY cycle_start DESC, created_at DESC
LIMIT 1
`, userID, since))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, model.ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get current match: %w", err)
	}
	return m, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.list(ctx, "list user matches", `SELECT`+matchColumns+`
FROM matches
WHERE user_a = $1 OR user_b = $1
ORDER BY cycle_start DESC, created_at DESC
LIMIT $2
`, userID, limit)
}

func (r *MatchRepo) ListAll(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, "list matches", `SELECT`+matchColumns+`
FROM matches
ORDER BY created_at DESC
LIMIT $1
`, limit)
}

func (r *MatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return errNoPool
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMatchNotFound
	}
	return nil
}

// ApplyResponse writes update only if the responder's column is still unset
// and the other column still holds expectedOther.
func (r *MatchRepo) ApplyResponse(ctx context.Context, id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errNoPool
	}
	if !update.Side.Valid() {
		return model.Match{}, fmt.Errorf("apply response: %w", rules.ErrInvalidSide)
	}

	query, args := applyResponseStatement(id, update, expectedOther)
	m, err := scanMatch(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, model.ErrStaleWrite
		}
		return model.Match{}, fmt.Errorf("apply match response: %w", err)
	}
	return m, nil
}

// applyResponseStatement builds the guarded UPDATE. A row is returned only
// while the match is waiting, the responder's column is NULL and the other
// column equals expectedOther.
func applyResponseStatement(id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (string, []any) {
	mine := update.Side.Column()
	other := update.Side.Other().Column()

	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	query := `
UPDATE matches
SET ` + mine + ` = $2,
	status = COALESCE($3, status)
WHERE id = $1
	AND status = 'waiting'
	AND ` + mine + ` IS NULL
	AND ` + other + ` IS NOT DISTINCT FROM $4
RETURNING` + matchColumns

	return query, []any{id, update.Response.Ptr(), status, expectedOther.Ptr()}
}

// MarkNoMatch closes an unanswered waiting match as no_match.
func (r *MatchRepo) MarkNoMatch(ctx context.Context, id uuid.UUID) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, errNoPool
	}

	m, err := scanMatch(r.pool.QueryRow(ctx, `
UPDATE matches
SET status = 'no_match'
WHERE id = $1
	AND status = 'waiting'
	AND response_a IS NULL
	AND response_b IS NULL
RETURNING`+matchColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, model.ErrStaleWrite
		}
		return model.Match{}, fmt.Errorf("mark no match: %w", err)
	}
	return m, nil
}

func (r *MatchRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Match, error) {
	if r.pool == nil {
		return nil, errNoPool
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]model.Match, 0, 16)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}
	return items, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m                    model.Match
		status               string
		responseA, responseB *bool
		cycleStart           time.Time
	)
	if err := row.Scan(
		&m.ID,
		&m.UserA,
		&m.UserB,
		&cycleStart,
		&m.ResponseDeadline,
		&m.ResultDate,
		&status,
		&responseA,
		&responseB,
		&m.CreatedAt,
	); err != nil {
		return model.Match{}, err
	}

	m.CycleStart = time.Date(cycleStart.Year(), cycleStart.Month(), cycleStart.Day(), 0, 0, 0, 0, time.UTC)
	m.Status = enums.MatchStatus(status)
	m.ResponseA = enums.ResponseFromPtr(responseA)
	m.ResponseB = enums.ResponseFromPtr(responseB)
	m.ResponseDeadline = m.ResponseDeadline.UTC()
	m.ResultDate = m.ResultDate.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}
