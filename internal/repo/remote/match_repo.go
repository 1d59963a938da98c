package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
	"github.com/gittyapp/backend/internal/infra/supabase"
)

const matchesTable = "matches"

type MatchRepo struct {
	client *supabase.Client
}

func NewMatchRepo(client *supabase.Client) *MatchRepo {
	return &MatchRepo{client: client}
}

// matchRow mirrors the table row; cycle_start travels as a bare date.
type matchRow struct {
	ID               uuid.UUID         `json:"id"`
	UserA            uuid.UUID         `json:"user_a"`
	UserB            uuid.UUID         `json:"user_b"`
	CycleStart       string            `json:"cycle_start"`
	ResponseDeadline time.Time         `json:"response_deadline"`
	ResultDate       time.Time         `json:"result_date"`
	Status           enums.MatchStatus `json:"status"`
	ResponseA        enums.Response    `json:"response_a"`
	ResponseB        enums.Response    `json:"response_b"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (r matchRow) toModel() (model.Match, error) {
	cycleStart, err := time.Parse(time.DateOnly, r.CycleStart)
	if err != nil {
		return model.Match{}, fmt.Errorf("parse cycle_start %q: %w", r.CycleStart, err)
	}
	return model.Match{
		ID:               r.ID,
		UserA:            r.UserA,
		UserB:            r.UserB,
		CycleStart:       cycleStart,
		ResponseDeadline: r.ResponseDeadline.UTC(),
		ResultDate:       r.ResultDate.UTC(),
		Status:           r.Status,
		ResponseA:        r.ResponseA,
		ResponseB:        r.ResponseB,
		CreatedAt:        r.CreatedAt.UTC(),
	}, nil
}

func rowsToModels(rows []matchRow) ([]model.Match, error) {
	items := make([]model.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func firstRow(rows []matchRow, missing error) (model.Match, error) {
	if len(rows) == 0 {
		return model.Match{}, missing
	}
	return rows[0].toModel()
}

// Create inserts a waiting match. The pairing check and the insert are two
// requests; the table API offers no transaction across them.
func (r *MatchRepo) Create(ctx context.Context, m model.Match) (model.Match, error) {
	ids := []string{m.UserA.String(), m.UserB.String()}
	var existing []matchRow
	err := r.client.From(matchesTable).
		Select("id").
		Eq("cycle_start", m.CycleDate()).
		Or(supabase.InFilter("user_a", ids...), supabase.InFilter("user_b", ids...)).
		Limit(1).
		Execute(ctx, &existing)
	if err != nil {
		return model.Match{}, fmt.Errorf("lookup cycle pairing: %w", err)
	}
	if len(existing) > 0 {
		return model.Match{}, model.ErrAlreadyPaired
	}

	row := map[string]any{
		"user_a":            m.UserA,
		"user_b":            m.UserB,
		"cycle_start":       m.CycleDate(),
		"response_deadline": m.ResponseDeadline.UTC(),
		"result_date":       m.ResultDate.UTC(),
		"status":            enums.MatchStatusWaiting,
	}
	if m.ID != uuid.Nil {
		row["id"] = m.ID
	}

	var rows []matchRow
	if err := r.client.From(matchesTable).Insert(ctx, row, &rows); err != nil {
		if supabase.StatusCode(err) == http.StatusConflict {
			return model.Match{}, model.ErrAlreadyPaired
		}
		return model.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return firstRow(rows, errors.New("insert match: empty representation"))
}

func (r *MatchRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Match, error) {
	var row matchRow
	err := r.client.From(matchesTable).Select("*").Eq("id", id.String()).Single().Execute(ctx, &row)
	if err != nil {
		if errors.Is(err, supabase.ErrNoRows) {
			return model.Match{}, model.ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return row.toModel()
}

func (r *MatchRepo) CurrentForUser(ctx context.Context, userID uuid.UUID, since string) (model.Match, error) {
	var row matchRow
	err := r.client.From(matchesTable).
		Select("*").
		Or(supabase.EqFilter("user_a", userID.String()), supabase.EqFilter("user_b", userID.String())).
		Gte("cycle_start", since).
		Order("cycle_start", false).
		Limit(1).
		Single().
		Execute(ctx, &row)
	if err != nil {
		if errors.Is(err, supabase.ErrNoRows) {
			return model.Match{}, model.ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get current match: %w", err)
	}
	return row.toModel()
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []matchRow
	err := r.client.From(matchesTable).
		Select("*").
		Or(supabase.EqFilter("user_a", userID.String()), supabase.EqFilter("user_b", userID.String())).
		Order("cycle_start", false).
		Limit(limit).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list user matches: %w", err)
	}
	return rowsToModels(rows)
}

func (r *MatchRepo) ListAll(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []matchRow
	err := r.client.From(matchesTable).
		Select("*").
		Order("created_at", false).
		Limit(limit).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return rowsToModels(rows)
}

func (r *MatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.client.From(matchesTable).Eq("id", id.String()).Delete(ctx); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

func (r *MatchRepo) ApplyResponse(ctx context.Context, id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (model.Match, error) {
	if !update.Side.Valid() {
		return model.Match{}, fmt.Errorf("apply response: %w", rules.ErrInvalidSide)
	}

	patch := map[string]any{
		update.Side.Column(): update.Response.Ptr(),
	}
	if update.Status != nil {
		patch["status"] = *update.Status
	}

	var rows []matchRow
	err := r.client.From(matchesTable).
		Eq("id", id.String()).
		Eq("status", string(enums.MatchStatusWaiting)).
		Is(update.Side.Column(), "null").
		Is(update.Side.Other().Column(), isLiteral(expectedOther)).
		Update(ctx, patch, &rows)
	if err != nil {
		return model.Match{}, fmt.Errorf("apply match response: %w", err)
	}
	return firstRow(rows, model.ErrStaleWrite)
}

func (r *MatchRepo) MarkNoMatch(ctx context.Context, id uuid.UUID) (model.Match, error) {
	var rows []matchRow
	err := r.client.From(matchesTable).
		Eq("id", id.String()).
		Eq("status", string(enums.MatchStatusWaiting)).
		Is("response_a", "null").
		Is("response_b", "null").
		Update(ctx, map[string]any{"status": enums.MatchStatusNoMatch}, &rows)
	if err != nil {
		return model.Match{}, fmt.Errorf("mark no match: %w", err)
	}
	return firstRow(rows, model.ErrStaleWrite)
}

func isLiteral(r enums.Response) string {
	switch r {
	case enums.ResponseAccepted:
		return "true"
	case enums.ResponseDeclined:
		return "false"
	}
	return "null"
}
