package dualrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/enums"
	"github.com/gittyapp/backend/internal/domain/model"
	"github.com/gittyapp/backend/internal/domain/rules"
)

type MatchStore interface {
	Create(context.Context, model.Match) (model.Match, error)
	GetByID(context.Context, uuid.UUID) (model.Match, error)
	CurrentForUser(context.Context, uuid.UUID, string) (model.Match, error)
	ListForUser(context.Context, uuid.UUID, int) ([]model.Match, error)
	ListAll(context.Context, int) ([]model.Match, error)
	Delete(context.Context, uuid.UUID) error
	ApplyResponse(context.Context, uuid.UUID, rules.MatchUpdate, enums.Response) (model.Match, error)
	MarkNoMatch(context.Context, uuid.UUID) (model.Match, error)
}

type MatchRepo struct {
	router router[MatchStore]
}

func NewMatchRepo(restRepo, dbRepo MatchStore, mode string) *MatchRepo {
	return &MatchRepo{router: newRouter("match", restRepo, dbRepo, mode)}
}

func (r *MatchRepo) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if r == nil {
		return model.Match{}, errNilRepo
	}
	return callWrite(r.router, func(repo MatchStore) (model.Match, error) {
		return repo.Create(ctx, m)
	})
}

func (r *MatchRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Match, error) {
	if r == nil {
		return model.Match{}, errNilRepo
	}
	return callWithFallback(r.router, func(repo MatchStore) (model.Match, error) {
		return repo.GetByID(ctx, id)
	})
}

func (r *MatchRepo) CurrentForUser(ctx context.Context, userID uuid.UUID, since string) (model.Match, error) {
	if r == nil {
		return model.Match{}, errNilRepo
	}
	return callWithFallback(r.router, func(repo MatchStore) (model.Match, error) {
		return repo.CurrentForUser(ctx, userID, since)
	})
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Match, error) {
	if r == nil {
		return nil, errNilRepo
	}
	return callWithFallback(r.router, func(repo MatchStore) ([]model.Match, error) {
		return repo.ListForUser(ctx, userID, limit)
	})
}

func (r *MatchRepo) ListAll(ctx context.Context, limit int) ([]model.Match, error) {
	if r == nil {
		return nil, errNilRepo
	}
	return callWithFallback(r.router, func(repo MatchStore) ([]model.Match, error) {
		return repo.ListAll(ctx, limit)
	})
}

func (r *MatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r == nil {
		return errNilRepo
	}
	return callWriteErr(r.router, func(repo MatchStore) error {
		return repo.Delete(ctx, id)
	})
}

func (r *MatchRepo) ApplyResponse(ctx context.Context, id uuid.UUID, update rules.MatchUpdate, expectedOther enums.Response) (model.Match, error) {
	if r == nil {
		return model.Match{}, errNilRepo
	}
	return callWrite(r.router, func(repo MatchStore) (model.Match, error) {
		return repo.ApplyResponse(ctx, id, update, expectedOther)
	})
}

func (r *MatchRepo) MarkNoMatch(ctx context.Context, id uuid.UUID) (model.Match, error) {
	if r == nil {
		return model.Match{}, errNilRepo
	}
	return callWrite(r.router, func(repo MatchStore) (model.Match, error) {
		return repo.MarkNoMatch(ctx, id)
	})
}
