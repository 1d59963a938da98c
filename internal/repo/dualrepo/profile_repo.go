package dualrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
)

type ProfileStore interface {
	Create(context.Context, model.Profile) (model.Profile, error)
	GetByID(context.Context, uuid.UUID) (model.Profile, error)
	Update(context.Context, uuid.UUID, model.ProfilePatch) (model.Profile, error)
	ListAll(context.Context) ([]model.Profile, error)
}

type ProfileRepo struct {
	router router[ProfileStore]
}

func NewProfileRepo(restRepo, dbRepo ProfileStore, mode string) *ProfileRepo {
	return &ProfileRepo{router: newRouter("profile", restRepo, dbRepo, mode)}
}

func (r *ProfileRepo) Mode() string {
	return r.router.mode
}

func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if r == nil {
		return model.Profile{}, errNilRepo
	}
	return callWrite(r.router, func(repo ProfileStore) (model.Profile, error) {
		return repo.Create(ctx, p)
	})
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	if r == nil {
		return model.Profile{}, errNilRepo
	}
	return callWithFallback(r.router, func(repo ProfileStore) (model.Profile, error) {
		return repo.GetByID(ctx, id)
	})
}

func (r *ProfileRepo) Update(ctx context.Context, id uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	if r == nil {
		return model.Profile{}, errNilRepo
	}
	return callWrite(r.router, func(repo ProfileStore) (model.Profile, error) {
		return repo.Update(ctx, id, patch)
	})
}

func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.Profile, error) {
	if r == nil {
		return nil, errNilRepo
	}
	return callWithFallback(r.router, func(repo ProfileStore) ([]model.Profile, error) {
		return repo.ListAll(ctx)
	})
}
